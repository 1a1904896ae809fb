/*
Copyright © 2020 the LaSRC authors.
This file is part of LaSRC.

LaSRC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

LaSRC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with LaSRC.  If not, see <http://www.gnu.org/licenses/>.
*/

package lasrc

import "errors"

// ErrLUTOutOfRange is returned by the legacy Kernel when a lookup needs
// a table node that clamping cannot provide — an axis the table simply
// does not cover. It is fatal to the pixel and propagates out of
// Retrieve unchanged.
var ErrLUTOutOfRange = errors.New("lasrc: legacy lut lookup out of range")

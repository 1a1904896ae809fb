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

// Package lasrc implements the per-pixel aerosol optical thickness
// retrieval and Lambertian atmospheric correction used to convert
// top-of-atmosphere reflectance from Landsat-8/9 and Sentinel-2 into
// surface reflectance.
//
// The package is organized around a small dependency chain: a Satellite
// resolves band ranges and residual thresholds, a Kernel evaluates the
// atmospheric correction for one band at one candidate AOT, and Retrieve
// sweeps the AOT grid calling the Kernel until the model residual stops
// improving, refining the result with a parabolic fit.
package lasrc

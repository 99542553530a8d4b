/*package io reads the configuration files of light-cone runs.
 */
package io

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/lightcone/math/mat"
)

const ExampleLightconeFile = `[Lightcone]

#######################
# Required Parameters #
#######################

# Cosmological parameters. Curvature is 1 - OmegaM - OmegaL.
OmegaM = 0.3
OmegaL = 0.7

# Width of the simulation box in Mpc/h.
BoxSize = 1000

# Number of sampling points on a side of the regular sampling grid. Ignored if
# SkySampleFile is set.
GridCells = 64

# Range of scale factors stepped through and the number of steps.
AStart = 0.1
AEnd = 1
Steps = 40

# Catalogue file the sampled light cone is written to.
Output = path/to/output/lightcone.zst

#######################
# Optional Parameters #
#######################

# Number of periodic replicas of the box in each direction on either side of
# the central box. TileX = 1 searches 3 copies along x.
# TileX = 0
# TileY = 0
# TileZ = 0

# Full opening angle in degrees of the survey cone around the observer's +z
# axis. Values <= 0 disable the cut and distances are measured along z.
# FOV = 0

# Position of the observer in simulation coordinates, in Mpc/h. The box is
# shifted so the observer sits at the origin before GLMatrix is applied.
# ObserverX = 0
# ObserverY = 0
# ObserverZ = 0

# 4x4 row-major transform from the observer-centred simulation frame to the
# observer's frame.
# GLMatrix = "1 0 0 0  0 1 0 0  0 0 1 0  0 0 0 1"

# Rotation applied after GLMatrix, as three consecutive rotations in degrees
# around the x, y, and z axes.
# EulerPhi = 0
# EulerTheta = 0
# EulerPsi = 0

# Number of scale factors the horizon is tabulated at.
# HorizonTableSize = 8192
# Multiplies the speed of light.
# SpeedFactor = 1

# Output capacity in units of sampling points times tiles.
# CapacityFactor = 1

# Interpolate the potential and tidal tensor to each emission time.
# ComputePotential = true

# Table of (ra, dec, r) sky samples, in degrees and Mpc/h, which replaces the
# sampling grid. The emission time of every sample is found by inverting the
# horizon on SkyNodes scale factors in [SkyAMin, 1].
# SkySampleFile = path/to/sky.txt
# SkyRAColumn = 0
# SkyDecColumn = 1
# SkyRColumn = 2
# SkyAMin = 0.1
# SkyNodes = 20

# A second, coarser table of sky samples used for emission scale factors
# above SkySubsampleA, in place of SkySampleFile. Only every
# SkySubsampleFactor-th row is read. It uses the same columns.
# SkySubsampleFile = path/to/sky_coarse.txt
# SkySubsampleA = 0.5
# SkySubsampleFactor = 1

# A Gadget-2 snapshot whose particles are also put on the light cone, and
# where that light cone is written.
# ParticleFile = path/to/snapshot.0
# ParticleOutput = path/to/output/particles.zst

# Plane wave used as the gravitational potential:
# phi = WaveAmplitude * D(a) * cos(k . x + WavePhase).
# WaveAmplitude = 1e-5
# WaveKX = 0.0062832
# WaveKY = 0
# WaveKZ = 0
# WavePhase = 0

# Number of goroutines used for the light-cone search. Defaults to the
# number of CPUs.
# Workers = 0

# One of debug, info, warn, or error.
# LogLevel = info`

type LightconeConfig struct {
	// Required
	OmegaM, OmegaL float64
	BoxSize        float64
	GridCells      int
	AStart, AEnd   float64
	Steps          int
	Output         string

	// Optional
	TileX, TileY, TileZ int
	FOV                 float64
	ObserverX           float64
	ObserverY           float64
	ObserverZ           float64
	GLMatrix            string
	EulerPhi            float64
	EulerTheta          float64
	EulerPsi            float64
	HorizonTableSize    int
	SpeedFactor         float64
	CapacityFactor      float64
	ComputePotential    bool

	SkySampleFile                         string
	SkyRAColumn, SkyDecColumn, SkyRColumn int
	SkyAMin                               float64
	SkyNodes                              int
	SkySubsampleFile                      string
	SkySubsampleA                         float64
	SkySubsampleFactor                    int

	ParticleFile, ParticleOutput string

	WaveAmplitude, WavePhase float64
	WaveKX, WaveKY, WaveKZ   float64

	Workers  int
	LogLevel string
}

type LightconeWrapper struct {
	Lightcone LightconeConfig
}

func DefaultLightconeWrapper() *LightconeWrapper {
	con := LightconeConfig{}
	con.GLMatrix = "1 0 0 0  0 1 0 0  0 0 1 0  0 0 0 1"
	con.HorizonTableSize = 8192
	con.SpeedFactor = 1
	con.CapacityFactor = 1
	con.ComputePotential = true
	con.SkyRAColumn, con.SkyDecColumn, con.SkyRColumn = 0, 1, 2
	con.SkyAMin = 0.1
	con.SkyNodes = 20
	con.SkySubsampleA = 0.5
	con.SkySubsampleFactor = 1
	con.WaveAmplitude = 1e-5
	con.LogLevel = "info"
	return &LightconeWrapper{con}
}

// ReadLightconeConfig reads and checks the [Lightcone] section of a file.
func ReadLightconeConfig(fname string) (*LightconeConfig, error) {
	wrap := DefaultLightconeWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Lightcone.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Lightcone, nil
}

// ParseLightconeConfig is ReadLightconeConfig for a config held in memory.
func ParseLightconeConfig(text string) (*LightconeConfig, error) {
	wrap := DefaultLightconeWrapper()
	if err := gcfg.ReadStringInto(wrap, text); err != nil {
		return nil, err
	}
	if err := wrap.Lightcone.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Lightcone, nil
}

func (con *LightconeConfig) ValidOmegaM() bool    { return con.OmegaM > 0 }
func (con *LightconeConfig) ValidOmegaL() bool    { return con.OmegaL >= 0 }
func (con *LightconeConfig) ValidBoxSize() bool   { return con.BoxSize > 0 }
func (con *LightconeConfig) ValidGridCells() bool { return con.GridCells > 0 }
func (con *LightconeConfig) ValidSteps() bool     { return con.Steps > 0 }
func (con *LightconeConfig) ValidOutput() bool    { return con.Output != "" }
func (con *LightconeConfig) ValidScaleRange() bool {
	return con.AStart > 0 && con.AEnd > con.AStart && con.AEnd <= 1
}
func (con *LightconeConfig) ValidTiles() bool {
	return con.TileX >= 0 && con.TileY >= 0 && con.TileZ >= 0
}
func (con *LightconeConfig) ValidHorizonTableSize() bool {
	return con.HorizonTableSize >= 2
}
func (con *LightconeConfig) ValidSpeedFactor() bool { return con.SpeedFactor > 0 }
func (con *LightconeConfig) ValidCapacityFactor() bool {
	return con.CapacityFactor > 0
}
func (con *LightconeConfig) ValidSkySampleFile() bool { return con.SkySampleFile != "" }
func (con *LightconeConfig) ValidSkyColumns() bool {
	return con.SkyRAColumn >= 0 && con.SkyDecColumn >= 0 && con.SkyRColumn >= 0
}
func (con *LightconeConfig) ValidSkyAMin() bool {
	return con.SkyAMin > 0 && con.SkyAMin < 1
}
func (con *LightconeConfig) ValidSkyNodes() bool { return con.SkyNodes >= 3 }
func (con *LightconeConfig) ValidSkySubsampleFile() bool {
	return con.SkySubsampleFile != ""
}
func (con *LightconeConfig) ValidSkySubsampleA() bool {
	return con.SkySubsampleA > con.SkyAMin && con.SkySubsampleA < 1
}
func (con *LightconeConfig) ValidSkySubsampleFactor() bool {
	return con.SkySubsampleFactor >= 1
}
func (con *LightconeConfig) ValidParticleFile() bool { return con.ParticleFile != "" }
func (con *LightconeConfig) ValidParticleOutput() bool {
	return con.ParticleOutput != ""
}
func (con *LightconeConfig) ValidWorkers() bool { return con.Workers >= 0 }

// CheckInit returns a descriptive error for the first invalid parameter.
func (con *LightconeConfig) CheckInit() error {
	switch {
	case !con.ValidOmegaM():
		return fmt.Errorf("OmegaM must be positive, but is %g.", con.OmegaM)
	case !con.ValidOmegaL():
		return fmt.Errorf("OmegaL must be non-negative, but is %g.", con.OmegaL)
	case !con.ValidBoxSize():
		return fmt.Errorf("BoxSize must be positive, but is %g.", con.BoxSize)
	case !con.ValidGridCells() && !con.ValidSkySampleFile():
		return fmt.Errorf(
			"GridCells must be positive when no SkySampleFile is given, but is %d.",
			con.GridCells,
		)
	case !con.ValidScaleRange():
		return fmt.Errorf(
			"Need 0 < AStart < AEnd <= 1, but AStart = %g and AEnd = %g.",
			con.AStart, con.AEnd,
		)
	case !con.ValidSteps():
		return fmt.Errorf("Steps must be positive, but is %d.", con.Steps)
	case !con.ValidOutput():
		return fmt.Errorf("Need to specify an Output file.")
	case !con.ValidTiles():
		return fmt.Errorf(
			"Tile extents must be non-negative, but are (%d, %d, %d).",
			con.TileX, con.TileY, con.TileZ,
		)
	case !con.ValidHorizonTableSize():
		return fmt.Errorf(
			"HorizonTableSize must be at least 2, but is %d.", con.HorizonTableSize,
		)
	case !con.ValidSpeedFactor():
		return fmt.Errorf("SpeedFactor must be positive, but is %g.", con.SpeedFactor)
	case !con.ValidCapacityFactor():
		return fmt.Errorf(
			"CapacityFactor must be positive, but is %g.", con.CapacityFactor,
		)
	case con.ValidSkySampleFile() && !con.ValidSkyColumns():
		return fmt.Errorf(
			"Sky columns must be non-negative, but are (%d, %d, %d).",
			con.SkyRAColumn, con.SkyDecColumn, con.SkyRColumn,
		)
	case con.ValidSkySampleFile() && !con.ValidSkyAMin():
		return fmt.Errorf("SkyAMin must be in (0, 1), but is %g.", con.SkyAMin)
	case con.ValidSkySampleFile() && !con.ValidSkyNodes():
		return fmt.Errorf("SkyNodes must be at least 3, but is %d.", con.SkyNodes)
	case con.ValidSkySubsampleFile() && !con.ValidSkySampleFile():
		return fmt.Errorf("SkySubsampleFile is set, but SkySampleFile is not.")
	case con.ValidSkySubsampleFile() && !con.ValidSkySubsampleA():
		return fmt.Errorf(
			"SkySubsampleA must be in (SkyAMin, 1) = (%g, 1), but is %g.",
			con.SkyAMin, con.SkySubsampleA,
		)
	case con.ValidSkySubsampleFile() && !con.ValidSkySubsampleFactor():
		return fmt.Errorf(
			"SkySubsampleFactor must be positive, but is %d.", con.SkySubsampleFactor,
		)
	case con.ValidParticleFile() && !con.ValidParticleOutput():
		return fmt.Errorf("ParticleFile is set, but ParticleOutput is not.")
	case !con.ValidWorkers():
		return fmt.Errorf("Workers must be non-negative, but is %d.", con.Workers)
	}

	if _, err := con.Transform(); err != nil {
		return err
	}
	if _, err := con.Level(); err != nil {
		return err
	}
	return nil
}

// Transform moves the observer to the origin, then applies GLMatrix and the
// Euler rotation.
func (con *LightconeConfig) Transform() (mat.Transform, error) {
	fields := strings.Fields(con.GLMatrix)
	vals := make([]float64, len(fields))
	for i, field := range fields {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return mat.Transform{}, fmt.Errorf(
				"GLMatrix element %d, '%s', is not a number.", i, field,
			)
		}
		vals[i] = val
	}

	gl, err := mat.NewTransform(vals)
	if err != nil {
		return gl, err
	}
	shift := mat.Translation([3]float64{-con.ObserverX, -con.ObserverY, -con.ObserverZ})
	deg := math.Pi / 180
	return shift.Then(gl).Then(mat.Euler(
		con.EulerPhi*deg, con.EulerTheta*deg, con.EulerPsi*deg,
	)), nil
}

// Level parses LogLevel.
func (con *LightconeConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(con.LogLevel)); err != nil {
		return level, fmt.Errorf("LogLevel '%s' is not recognized.", con.LogLevel)
	}
	return level, nil
}

// WaveVector returns (WaveKX, WaveKY, WaveKZ).
func (con *LightconeConfig) WaveVector() [3]float64 {
	return [3]float64{con.WaveKX, con.WaveKY, con.WaveKZ}
}

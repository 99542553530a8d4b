// Command lightcone samples an observer's past light cone from a stepped
// particle-mesh run and writes it to a compressed catalogue.
//
// The gravitational potential is an analytic plane wave, so no solver is
// needed. Particles from a Gadget-2 snapshot can be put on the light cone
// alongside the sampling points.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/lightcone"
	"github.com/phil-mansfield/lightcone/catalog"
	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/event"
	"github.com/phil-mansfield/lightcone/geom"
	"github.com/phil-mansfield/lightcone/io"
	"github.com/phil-mansfield/lightcone/stepper"
)

var gadgetEndianness = binary.LittleEndian

func main() {
	rootCmd := &cobra.Command{
		Use:   "lightcone",
		Short: "Past light cone sampler",
	}

	runCmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Step through a run and write its light cone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := io.ReadLightconeConfig(args[0])
			if err != nil {
				return err
			}
			level, _ := con.Level()
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return run(ctx, con, logger)
		},
	}

	exampleCmd := &cobra.Command{
		Use:   "example-config",
		Short: "Print an example configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(io.ExampleLightconeFile)
		},
	}

	rootCmd.AddCommand(runCmd, exampleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, con *io.LightconeConfig, logger *slog.Logger) error {
	c, err := cosmo.NewLCDM(con.OmegaM, con.OmegaL)
	if err != nil {
		return err
	}
	tr, err := con.Transform()
	if err != nil {
		return err
	}

	box := [3]float64{con.BoxSize, con.BoxSize, con.BoxSize}
	obs := lightcone.Observer{
		Transform:        tr,
		FOV:              con.FOV,
		Tiles:            geom.Tiles(con.TileX, con.TileY, con.TileZ, box),
		HorizonTableSize: con.HorizonTableSize,
		SpeedFactor:      con.SpeedFactor,
		Workers:          con.Workers,
		ComputePotential: con.ComputePotential,
	}

	samples, err := sampleStore(c, con)
	if err != nil {
		return err
	}
	capacity := scaledCapacity(samples.Len(), len(obs.Tiles), con.CapacityFactor)

	ctrl, err := lightcone.New(c, obs, samples, capacity, logger)
	if err != nil {
		return err
	}

	if con.ParticleFile != "" {
		hd, err := catalog.ReadGadgetHeader(con.ParticleFile, gadgetEndianness)
		if err != nil {
			return err
		}
		_, particles, err := catalog.ReadGadget(
			con.ParticleFile, gadgetEndianness, int(hd.Count),
		)
		if err != nil {
			return err
		}
		pcap := scaledCapacity(particles.Len(), len(obs.Tiles), con.CapacityFactor)
		if err := ctrl.SetParticles(particles, pcap); err != nil {
			return err
		}
		logger.Info("read particles", "file", con.ParticleFile, "count", particles.Len())
	}

	bus := event.NewBus(logger)
	if err := ctrl.Attach(bus); err != nil {
		return err
	}

	as, err := stepper.LinearSchedule(con.AStart, con.AEnd, con.Steps)
	if err != nil {
		return err
	}
	wave := &stepper.PlaneWave{
		Amp: con.WaveAmplitude, Phase: con.WavePhase,
		K: con.WaveVector(), Cosmo: c,
	}
	if err := stepper.New(bus, wave.At, logger).Run(ctx, as); err != nil {
		return err
	}

	hd := fileHeader(con, ctrl)
	if err := catalog.WriteFile(con.Output, hd, ctrl.Output()); err != nil {
		return err
	}
	logger.Info("wrote light cone", "file", con.Output, "records", ctrl.Output().Len())

	if pout := ctrl.ParticleOutput(); pout != nil {
		if err := catalog.WriteFile(con.ParticleOutput, hd, pout); err != nil {
			return err
		}
		logger.Info("wrote particle light cone",
			"file", con.ParticleOutput, "records", pout.Len(),
		)
	}
	return nil
}

// sampleStore builds the sampling points: sky samples if a sample file is
// configured and a regular grid otherwise.
func sampleStore(c cosmo.Cosmology, con *io.LightconeConfig) (*catalog.Store, error) {
	var extra catalog.Mask
	if con.ComputePotential {
		extra = catalog.Potential | catalog.Tidal
	}

	if con.SkySampleFile == "" {
		return lightcone.GridSamples(con.GridCells, con.BoxSize, extra), nil
	}

	sky, err := readSky(con, con.SkySampleFile)
	if err != nil {
		return nil, err
	}
	shells := []lightcone.SkyShell{
		{Sky: sky, ALo: math.Inf(-1), AHi: math.Inf(1)},
	}
	if con.SkySubsampleFile != "" {
		coarse, err := readSky(con, con.SkySubsampleFile)
		if err != nil {
			return nil, err
		}
		shells[0].AHi = con.SkySubsampleA
		shells = append(shells, lightcone.SkyShell{
			Sky: coarse, ALo: con.SkySubsampleA, AHi: math.Inf(1),
			Stride: con.SkySubsampleFactor,
		})
	}

	h := lightcone.NewHorizonTable(c, con.HorizonTableSize, con.SpeedFactor)
	ss, err := lightcone.NewSkySampler(h, con.SkyAMin, con.SkyNodes)
	if err != nil {
		return nil, err
	}
	return ss.ShellSamples(shells, extra), nil
}

func readSky(con *io.LightconeConfig, file string) (*catalog.SkySamples, error) {
	return catalog.ReadSkySamples(
		file, con.SkyRAColumn, con.SkyDecColumn, con.SkyRColumn,
	)
}

func scaledCapacity(n, tiles int, factor float64) int {
	return int(float64(n*tiles) * factor)
}

func fileHeader(con *io.LightconeConfig, ctrl *lightcone.Controller) catalog.FileHeader {
	obs := ctrl.Observer()
	gl := make([]float64, 0, 16)
	for i := range obs.Transform {
		gl = append(gl, obs.Transform[i][:]...)
	}

	return catalog.FileHeader{
		RunID:    catalog.NewRunID(),
		Created:  time.Now().UTC(),
		OmegaM:   con.OmegaM,
		OmegaL:   con.OmegaL,
		BoxSize:  con.BoxSize,
		FOV:      obs.FOV,
		Tiles:    [3]int{con.TileX, con.TileY, con.TileZ},
		GLMatrix: gl,
	}
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"screwplanner/internal/models"
	"screwplanner/pkg/config"
	"screwplanner/pkg/snapshot"
	"screwplanner/pkg/viewport"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", snapshot.TransformationFileName, "Transformation file with planned implant poses")
	outputDir := flag.String("output", "", "Output directory for the viewport snapshot file (default: input file's directory)")
	configPath := flag.String("config", "screwplanner.yaml", "Configuration file path")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file and exit")
	frameUID := flag.String("frame-uid", "", "DICOM Frame of Reference UID (overrides configuration)")
	generateUID := flag.Bool("generate-frame-uid", false, "Generate a fresh UUID-derived Frame of Reference UID")
	volumeID := flag.String("volume-id", "", "Viewer volume ID (overrides configuration)")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line overrides
	if *frameUID != "" {
		cfg.Viewer.FrameOfReferenceUID = *frameUID
	}
	if *generateUID {
		cfg.Viewer.FrameOfReferenceUID = config.GenerateFrameOfReferenceUID()
		log.Printf("Generated Frame of Reference UID: %s", cfg.Viewer.FrameOfReferenceUID)
	}
	if *volumeID != "" {
		cfg.Viewer.VolumeID = *volumeID
	}
	if cfg.Viewer.FrameOfReferenceUID == "" {
		// Caller-level fallback policy: the pipeline itself never guesses.
		cfg.Viewer.FrameOfReferenceUID = config.DefaultFrameOfReferenceUID
		log.Printf("Warning: no Frame of Reference UID configured, using placeholder %s", cfg.Viewer.FrameOfReferenceUID)
		log.Printf("Update this value manually if needed for viewer compatibility.")
	}

	outDir := *outputDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	if outDir == "" || outDir == "." {
		outDir = filepath.Dir(*inputPath)
	}

	fmt.Println("================================")
	fmt.Println("IMPLANT TRAJECTORY TO MPR VIEWPORT SNAPSHOT CONVERTER")
	fmt.Println("================================")

	tf, err := snapshot.LoadTransformationFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read transformation file: %v", err)
	}

	placements := tf.Placements()
	if len(placements) == 0 {
		log.Fatalf("Transformation file %s contains no implants", *inputPath)
	}

	vol := models.VolumeGeometry{
		IJKToRAS:            tf.IJKToRAS,
		FrameOfReferenceUID: cfg.Viewer.FrameOfReferenceUID,
		VolumeID:            cfg.Viewer.VolumeID,
	}
	params := viewport.Params{
		ParallelScale:  cfg.Viewer.ParallelScale,
		CameraDistance: cfg.Viewer.CameraDistance,
	}
	frame := models.DefaultFrame()

	fmt.Printf("Converting %d implants from: %s\n", len(placements), *inputPath)
	startTime := time.Now()

	doc, err := snapshot.BuildDocument(placements, frame, vol, params, startTime)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	if cfg.Output.Verbose {
		for _, entry := range doc {
			axial := entry.Snapshot.Viewports[0]
			fmt.Printf("- %s: radius %.1fmm, length %.0fmm, axial slice %d\n",
				entry.Name, entry.Snapshot.Radius, entry.Snapshot.Length,
				axial.ViewReference.SliceIndex)
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	outputPath := filepath.Join(outDir, snapshot.SnapshotFileName)
	if err := snapshot.Save(outputPath, doc); err != nil {
		log.Fatalf("Failed to save snapshot file: %v", err)
	}

	fmt.Printf("\nSaved %d viewport snapshots in %.2f seconds to: %s\n",
		len(doc), time.Since(startTime).Seconds(), outputPath)
}

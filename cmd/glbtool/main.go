// glbtool is a CLI utility for preparing and checking viewer model payloads.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/asset/glb"
	"github.com/Faultbox/glbview/internal/logger"
	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/internal/viewer/loader"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "encode", "enc":
		cmdEncode(args)
	case "inspect", "i":
		cmdInspect(args)
	case "curve":
		cmdCurve(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`glbtool - GLB viewer payload utility

Usage:
  glbtool <command> [options]

Commands:
  encode <file.glb>              Print the base64 payload for a GLB file
  inspect [-v] <payload-file>    Run the load pipeline without a window and report
  curve [brightness...]          Print exposure and light intensities per brightness

Examples:
  glbtool encode robot.glb > robot.b64
  MODEL_BASE64=$(cat robot.b64) glbview
  glbtool inspect robot.b64
  glbtool curve 1 30 80 100`)
}

func cmdEncode(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool encode <file.glb>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := glb.Parse(context.Background(), data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s does not parse as GLB: %v\n", args[0], err)
	}
	fmt.Println(loader.EncodePayload(data))
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Log pipeline steps to stderr")
	timeout := fs.Duration("timeout", 30*time.Second, "Give up after this long")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool inspect [-v] <payload-file>")
		os.Exit(1)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	if err := logger.InitWithOptions(logger.Options{Level: level, Console: os.Stderr}); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	payload := strings.TrimSpace(string(raw))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("Payload: %s (%d chars)\n", fs.Arg(0), len(payload))
	if _, err := inspect(ctx, os.Stdout, payload); err != nil {
		logger.Debug("load failed", zap.Error(err))
		logger.Sync()
		os.Exit(2)
	}
}

func cmdCurve(args []string) {
	points := []float64{1, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	if len(args) > 0 {
		points = points[:0]
		for _, a := range args {
			b, err := strconv.ParseFloat(a, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid brightness %q: %v\n", a, err)
				os.Exit(1)
			}
			points = append(points, b)
		}
	}

	fmt.Printf("%-10s %-12s", "brightness", "exposure")
	for _, r := range lighting.Roles {
		fmt.Printf(" %-14s", r)
	}
	fmt.Println()

	for _, b := range points {
		levels := lighting.Response(b)
		fmt.Printf("%-10s %-12.4f", lighting.BrightnessLabel(b), levels.Exposure)
		for _, r := range lighting.Roles {
			fmt.Printf(" %-14.4f", levels.Intensity(r))
		}
		fmt.Println()
	}
}

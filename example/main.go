package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	musicforge "github.com/darcovia/music-forge"
)

func main() {
	// .env may carry FFMPEG_PATH to force a specific engine binary.
	_ = godotenv.Load()

	var (
		outDir  = flag.String("out", musicforge.DefaultOutputDir(), "output directory")
		preset  = flag.String("preset", "High MP3", "preset name to apply")
		pattern = flag.String("name", musicforge.DefaultPattern, "output naming pattern, e.g. \"[artist] - [title]\"")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: example [flags] file...")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Event channel ─────────────────────────────────────────────────────
	eventCh := make(chan musicforge.Event, 64)
	go func() {
		for ev := range eventCh {
			switch ev.Kind {
			case musicforge.EventProgress:
				fmt.Printf("\r%3d%%", ev.Percent)
			case musicforge.EventLog:
				fmt.Printf("\n[%s] %s", ev.Level, ev.Message)
			case musicforge.EventDone:
				fmt.Printf("\ndone: %d file(s) -> %s\n", ev.Total, ev.OutputDir)
			}
		}
	}()

	// ── Create the forge ──────────────────────────────────────────────────
	forge, err := musicforge.New(musicforge.Config{EventCh: eventCh})
	if err != nil {
		log.Fatalf("failed to create forge: %v", err)
	}
	defer func() {
		forge.Close()
		close(eventCh)
	}()

	if ok, path := forge.EngineAvailable(); ok {
		fmt.Printf("engine: %s (%s)\n", path, forge.EngineVersion())
	} else {
		log.Fatal("ffmpeg not found — install it, place it next to the app, or set FFMPEG_PATH")
	}

	// ── Queue the inputs ──────────────────────────────────────────────────
	for _, path := range flag.Args() {
		if !forge.Enqueue(path, nil) {
			fmt.Printf("already queued: %s\n", path)
		}
	}

	// ── Resolve the profile and run ───────────────────────────────────────
	profile, err := forge.ApplyPreset(*preset)
	if err != nil {
		log.Fatalf("unknown preset %q (have: %v)", *preset, forge.PresetNames())
	}

	handle, err := forge.StartBatch(ctx, profile, *outDir, musicforge.WithPattern(*pattern))
	if err != nil {
		log.Fatalf("cannot start batch: %v", err)
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}
	fmt.Println(result.Summary())
	if err := result.Err(); err != nil {
		fmt.Printf("failures:\n%v\n", err)
		os.Exit(1)
	}
}

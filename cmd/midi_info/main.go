package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cbegin/smfseq-go"
)

func main() {
	var (
		path   = flag.String("file", "", "path to a Standard MIDI File")
		events = flag.Bool("events", false, "dump every track event")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: midi_info -file song.mid [-events]")
	}
	file, err := smfseq.DecodeFile(*path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(file)
	if !*events {
		return
	}
	for i, track := range file.Tracks {
		fmt.Printf("track %d:\n", i)
		tick := uint64(0)
		for _, te := range track.Events {
			tick += uint64(te.Delta)
			fmt.Printf("  tick %8d  %+v\n", tick, te.Event)
		}
	}
}

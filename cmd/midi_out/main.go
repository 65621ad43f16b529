// midi_out sequences a Standard MIDI File to a live MIDI output port. The
// connected device does the synthesis; this process only keeps time.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cbegin/smfseq-go"
	"github.com/cbegin/smfseq-go/internal/midiout"
	"github.com/cbegin/smfseq-go/internal/sequencer"
)

const blockFrames = 512

func main() {
	var (
		path       = flag.String("file", "", "path to a Standard MIDI File")
		portName   = flag.String("port", "", "output port name substring (empty = first port)")
		listPorts  = flag.Bool("list", false, "list output ports and exit")
		sampleRate = flag.Int("sample-rate", 44100, "internal clock rate")
		tempo      = flag.Float64("tempo", 120, "tempo in BPM for metrical files")
	)
	flag.Parse()

	if *listPorts {
		for _, name := range midiout.Names() {
			fmt.Println(name)
		}
		return
	}
	if *path == "" {
		log.Fatal("usage: midi_out -file song.mid [-port name]")
	}
	file, err := smfseq.DecodeFile(*path)
	if err != nil {
		log.Fatal(err)
	}
	port, err := midiout.Open(*portName)
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()
	fmt.Printf("playing %s on %q\n", *path, port.Name())

	seq := sequencer.New(port, *sampleRate, sequencer.Options{Tempo: *tempo})
	seq.PlayFile(file)

	// Pace the sample clock against wall time, one block at a time. The port
	// renders silence, so the buffer content is discarded.
	block := make([]float32, blockFrames*2)
	blockDur := time.Duration(float64(blockFrames) / float64(*sampleRate) * float64(time.Second))
	ticker := time.NewTicker(blockDur)
	defer ticker.Stop()
	for range ticker.C {
		if n := seq.Process(block); n < blockFrames {
			break
		}
	}
	fmt.Println("playback completed")
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cbegin/smfseq-go"
)

func main() {
	var (
		path       = flag.String("file", "", "path to a Standard MIDI File")
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		tempo      = flag.Float64("tempo", 120, "tempo in BPM for metrical files")
		volume     = flag.Float64("volume", 1.0, "master volume scalar")
		wavPath    = flag.String("wav", "", "render to a WAV file instead of playing")
		wavSecs    = flag.Float64("wav-seconds", 30, "render length when -wav is set")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: play_midi -file song.mid")
	}
	file, err := smfseq.DecodeFile(*path)
	if err != nil {
		log.Fatal(err)
	}

	if *wavPath != "" {
		samples := smfseq.RenderSamples(file, *sampleRate, *wavSecs, smfseq.WithTempo(*tempo))
		wav := smfseq.EncodeWAVFloat32LE(samples, *sampleRate, 2)
		if err := os.WriteFile(*wavPath, wav, 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%d frames)\n", *wavPath, len(samples)/2)
		return
	}

	pl, err := smfseq.NewPlayer(*sampleRate, smfseq.WithTempo(*tempo))
	if err != nil {
		log.Fatal(err)
	}
	pl.SetMasterVolume(*volume)
	if err := pl.Play(file); err != nil {
		log.Fatal(err)
	}
	pl.Wait()
	fmt.Println("playback completed")
}

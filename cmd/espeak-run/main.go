package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	espeakruntime "github.com/phonemix/espeak-runtime"
	"github.com/phonemix/espeak-runtime/runtime"
	"github.com/phonemix/espeak-runtime/voice"
)

func main() {
	var (
		libName     = flag.String("lib", "", "Shared library name or path (default: platform espeak-ng)")
		voiceName   = flag.String("voice", "en", "Voice to select")
		language    = flag.String("lang", "", "Filter voice listing by language")
		phonemes    = flag.String("phonemes", "", "Text to convert to phonemes")
		speak       = flag.String("speak", "", "Text to synthesize")
		ipa         = flag.Bool("ipa", false, "Output IPA instead of ASCII phoneme names")
		trace       = flag.Bool("trace", false, "Write a phoneme trace to stderr while speaking")
		list        = flag.Bool("list", false, "List installed voices and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if !*list && *phonemes == "" && *speak == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: espeak-run -phonemes \"text\" [-voice name] [-ipa]")
		fmt.Fprintln(os.Stderr, "       espeak-run -speak \"text\" [-voice name] [-trace]")
		fmt.Fprintln(os.Stderr, "       espeak-run -list [-lang code]")
		fmt.Fprintln(os.Stderr, "       espeak-run -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*libName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*libName, *voiceName, *language, *phonemes, *speak, *ipa, *trace, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(libName, voiceName, language, phonemeText, speakText string, ipa, trace, listOnly bool) error {
	inst, err := runtime.New(libName)
	if err != nil {
		return err
	}
	defer inst.Close()

	info, err := inst.Info()
	if err != nil {
		return fmt.Errorf("query info: %w", err)
	}
	fmt.Printf("espeak-ng %s\n", info.Version)
	fmt.Printf("Data path: %s\n", info.DataPath)
	fmt.Printf("Library:   %s\n", inst.LibraryPath())

	if listOnly {
		var spec *voice.Spec
		if language != "" {
			spec = &voice.Spec{Language: language}
		}
		voices, err := inst.Voices(spec)
		if err != nil {
			return fmt.Errorf("list voices: %w", err)
		}

		fmt.Printf("\nInstalled voices: %d\n", len(voices))
		for _, v := range voices {
			fmt.Printf("  %-28s %-10s %s\n", v.Name, v.Language(), v.Identifier)
		}
		return nil
	}

	if err := inst.SetVoiceByName(voiceName); err != nil {
		return fmt.Errorf("select voice %q: %w", voiceName, err)
	}

	if phonemeText != "" {
		mode := espeakruntime.PhonemeModeASCII
		if ipa {
			mode = espeakruntime.PhonemeModeIPA
		}
		out, err := inst.TextToPhonemes(phonemeText, espeakruntime.TextModeUTF8, mode)
		if err != nil {
			return fmt.Errorf("convert to phonemes: %w", err)
		}
		fmt.Printf("\n%s\n", out)
	}

	if speakText != "" {
		if trace {
			if err := inst.SetPhonemeTrace(espeakruntime.TracePhonemes, os.Stderr); err != nil {
				return fmt.Errorf("enable phoneme trace: %w", err)
			}
		}
		fmt.Printf("\nSynthesizing...\n")
		if err := inst.Synthesize(speakText, espeakruntime.SynthCharsUTF8|espeakruntime.SynthEndPause); err != nil {
			return fmt.Errorf("synthesize: %w", err)
		}
		fmt.Printf("Done.\n")
	}

	return nil
}

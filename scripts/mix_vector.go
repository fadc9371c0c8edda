// mix_vector.go prints the mixed entropy and mnemonic for a list of sources,
// one per line. Used to produce fixtures for the entropy tests.
// Usage: go run scripts/mix_vector.go <12|24> <sourcefile>
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/seedsmith/internal/entropy"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: mix_vector <12|24> <sourcefile>")
		os.Exit(1)
	}
	wordCount, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	// A line "-" stands for an unreadable source.
	var sources [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "-" {
			sources = append(sources, nil)
			continue
		}
		sources = append(sources, []byte(line))
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ent, err := entropy.Mix(wordCount, sources...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	words, err := mnemonic.FromEntropy(wordlist.MustLoad(wordlist.English), ent)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("entropy=%s\n", hex.EncodeToString(ent))
	fmt.Printf("mnemonic=%s\n", strings.Join(words, " "))
}

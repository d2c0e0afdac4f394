package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/spacemeshos/go-ballot/common/types"
)

// readVoters reads one bech32 address per line. Empty lines and lines starting with # are skipped.
func readVoters(fs afero.Fs, path string) ([]types.Address, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read voters file: %w", err)
	}
	var voters []types.Address
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		address, err := types.StringToAddress(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		voters = append(voters, address)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read voters file: %w", err)
	}
	return voters, nil
}

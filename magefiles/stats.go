//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Stats prints Go lines of code per top-level directory and the word
// count of DESIGN.md as one JSON record.
func Stats() error {
	record := map[string]int{}
	var prodLines, testLines int

	for _, root := range []string{"cmd", "internal", "pkg"} {
		var dirLines int
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || !strings.HasSuffix(path, ".go") {
				return nil
			}
			count, countErr := countLines(path)
			if countErr != nil {
				return nil
			}
			dirLines += count
			if strings.HasSuffix(path, "_test.go") {
				testLines += count
			} else {
				prodLines += count
			}
			return nil
		})
		if err != nil {
			return err
		}
		record["go_loc_"+root] = dirLines
	}
	record["go_loc_prod"] = prodLines
	record["go_loc_test"] = testLines
	record["go_loc"] = prodLines + testLines

	if words, err := countWordsInFile("DESIGN.md"); err == nil {
		record["doc_wc_design"] = words
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func countWordsInFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	count := 0
	inWord := false
	for _, r := range string(data) {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count, nil
}

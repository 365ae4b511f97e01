package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	minHours = 1
	maxHours = 168
)

var errConfirmationAborted = errors.New("aborted")

// confirmHours shows the proposed look-back window and loops until the
// user accepts one. "y" or an empty line accepts, "n" asks for a new
// value, and a bare number replaces the proposal and is re-confirmed.
// EOF on input aborts the run.
func confirmHours(in io.Reader, out io.Writer, proposed int) (int, error) {
	scanner := bufio.NewScanner(in)

	for {
		inBounds := proposed >= minHours && proposed <= maxHours
		if inBounds {
			fmt.Fprintf(out, "Summarize the last %d hours? [y/n or new value] ", proposed)
		} else {
			fmt.Fprintf(out, "Window must be between %d and %d hours. Enter a new value: ", minHours, maxHours)
		}

		answer, err := readLine(scanner)
		if err != nil {
			return 0, err
		}
		answer = strings.ToLower(answer)

		if inBounds && (answer == "" || answer == "y" || answer == "yes") {
			return proposed, nil
		}
		if answer == "n" || answer == "no" {
			fmt.Fprint(out, "Enter hours: ")
			answer, err = readLine(scanner)
			if err != nil {
				return 0, err
			}
		}

		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(out, "Answer y, n or a number of hours.")
			continue
		}
		proposed = n
	}
}

func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errConfirmationAborted
	}
	return strings.TrimSpace(scanner.Text()), nil
}

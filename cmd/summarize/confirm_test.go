package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestConfirmHours_Accepts(t *testing.T) {
	var out bytes.Buffer

	hours, err := confirmHours(strings.NewReader("y\n"), &out, 24)

	assert.Equal(t, err, nil)
	assert.Equal(t, hours, 24)
	assert.Equal(t, strings.Contains(out.String(), "Summarize the last 24 hours?"), true)
}

func TestConfirmHours_EmptyLineAccepts(t *testing.T) {
	var out bytes.Buffer

	hours, err := confirmHours(strings.NewReader("\n"), &out, 6)

	assert.Equal(t, err, nil)
	assert.Equal(t, hours, 6)
}

func TestConfirmHours_NumberReplacesProposal(t *testing.T) {
	var out bytes.Buffer

	hours, err := confirmHours(strings.NewReader("6\ny\n"), &out, 24)

	assert.Equal(t, err, nil)
	assert.Equal(t, hours, 6)
	assert.Equal(t, strings.Contains(out.String(), "Summarize the last 6 hours?"), true)
}

func TestConfirmHours_RejectThenEnterNewValue(t *testing.T) {
	var out bytes.Buffer

	hours, err := confirmHours(strings.NewReader("n\n12\ny\n"), &out, 24)

	assert.Equal(t, err, nil)
	assert.Equal(t, hours, 12)
	assert.Equal(t, strings.Contains(out.String(), "Enter hours:"), true)
}

func TestConfirmHours_OutOfBoundsReprompts(t *testing.T) {
	var out bytes.Buffer

	hours, err := confirmHours(strings.NewReader("500\n24\ny\n"), &out, 24)

	assert.Equal(t, err, nil)
	assert.Equal(t, hours, 24)
	assert.Equal(t, strings.Contains(out.String(), "between 1 and 168 hours"), true)
}

func TestConfirmHours_GarbageReprompts(t *testing.T) {
	var out bytes.Buffer

	hours, err := confirmHours(strings.NewReader("maybe\ny\n"), &out, 24)

	assert.Equal(t, err, nil)
	assert.Equal(t, hours, 24)
	assert.Equal(t, strings.Contains(out.String(), "Answer y, n or a number"), true)
}

func TestConfirmHours_EOFAborts(t *testing.T) {
	var out bytes.Buffer

	_, err := confirmHours(strings.NewReader(""), &out, 24)

	assert.Equal(t, errors.Is(err, errConfirmationAborted), true)
}

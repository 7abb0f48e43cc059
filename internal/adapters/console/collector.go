// Package console implements the line-based terminal surface: an interactive
// collector that gathers one observation and a writer for query reports.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/apexstats/internal/domain/model"
)

// Prompts and messages written by the collector.
const (
	PromptKills    = "Number of kills: "
	PromptDamage   = "Damage dealt: "
	PromptPosition = "Squad Position: "
	PromptLegend   = "Legend: "
	PromptSquad    = "Squad makeup: "
	PromptNotes    = "Notes: "

	InvalidValueMessage = "Invalid value. Please try again\n"
	retryPrompt         = "> "
)

// ErrInputClosed is returned when the input ends before every field is read.
var ErrInputClosed = errors.New("console: input closed before observation was complete")

// Collector reads one observation field by field, re-prompting on invalid
// input.
type Collector struct {
	in    *bufio.Reader
	out   io.Writer
	clock func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock sets the function that timestamps collected observations.
func WithClock(clock func() time.Time) Option {
	return func(c *Collector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewCollector returns a Collector reading answers from r and writing prompts to w.
func NewCollector(r io.Reader, w io.Writer, opts ...Option) *Collector {
	c := &Collector{
		in:    bufio.NewReader(r),
		out:   w,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect prompts for every field in order and returns the observation,
// stamped with the collector's clock.
func (c *Collector) Collect(ctx context.Context) (model.Observation, error) {
	var o model.Observation
	var err error

	if o.Kills, err = readField(ctx, c, PromptKills, parseCount); err != nil {
		return model.Observation{}, err
	}
	if o.Damage, err = readField(ctx, c, PromptDamage, parseCount); err != nil {
		return model.Observation{}, err
	}
	if o.SquadPosition, err = readField(ctx, c, PromptPosition, parsePosition); err != nil {
		return model.Observation{}, err
	}
	if o.Character, err = readField(ctx, c, PromptLegend, model.ParseCharacter); err != nil {
		return model.Observation{}, err
	}
	if o.Squad, err = readField(ctx, c, PromptSquad, model.ParseSquadComposition); err != nil {
		return model.Observation{}, err
	}
	if o.Notes, err = readField(ctx, c, PromptNotes, parseNotes); err != nil {
		return model.Observation{}, err
	}

	o.RecordedAt = c.clock()
	return o, nil
}

func readField[T any](ctx context.Context, c *Collector, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	if err := c.message(prompt); err != nil {
		return zero, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		line, err := c.in.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return zero, fmt.Errorf("console: read input: %w", err)
			}
			// A final line without a newline still counts.
			if line == "" {
				return zero, ErrInputClosed
			}
		}

		value, perr := parse(strings.TrimSpace(line))
		if perr == nil {
			return value, nil
		}
		if err := c.message(InvalidValueMessage + retryPrompt); err != nil {
			return zero, err
		}
	}
}

func (c *Collector) message(msg string) error {
	if _, err := io.WriteString(c.out, msg); err != nil {
		return fmt.Errorf("console: write prompt: %w", err)
	}
	return nil
}

func parseCount(text string) (uint64, error) {
	return strconv.ParseUint(text, 10, 64)
}

func parsePosition(text string) (uint64, error) {
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, &model.ValidationError{Field: "squad_position", Reason: "must be at least 1"}
	}
	return n, nil
}

func parseNotes(text string) (string, error) { return text, nil }

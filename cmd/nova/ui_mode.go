package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/buildpipeline"
	"github.com/NovaVoxel/NovaLang/internal/packager"
	"github.com/NovaVoxel/NovaLang/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode, out io.Writer) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(out)
	}
}

type packOutcome struct {
	result *packager.Result
	err    error
}

// packWithUI runs the packager in the background and renders its progress
// until it finishes.
func packWithUI(ctx context.Context, title string, req *packager.Request, in io.Reader, out io.Writer) (*packager.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan packOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := packager.Pack(ctx, &reqCopy)
		outcomeCh <- packOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(title, nil, events, in, out)
	if uiErr != nil {
		// keep draining so the packager never blocks on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

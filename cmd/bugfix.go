package cmd

import (
	"fmt"

	"github.com/masmgr/pvcslog-go/internal/bugfix"
)

// DetectBugfixes classifies the change entries with the configured patterns.
func (ctx *CommandContext) DetectBugfixes() (*bugfix.Result, error) {
	detector, err := bugfix.NewDetector(ctx.Config.Bugfix.Patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid bug pattern: %w", err)
	}

	result := detector.Detect(ctx.Changes)
	ctx.Logger.Debug("bugfix detection", "patterns", len(ctx.Config.Bugfix.Patterns), "bugfixes", result.TotalBugfixes)
	return result, nil
}

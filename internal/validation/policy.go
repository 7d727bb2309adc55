package validation

import (
	"fmt"

	"github.com/zatekoja/grocerylist/backend/pkg/config"
	apperrors "github.com/zatekoja/grocerylist/backend/pkg/errors"
)

// Policy holds the acceptance thresholds applied to a parsed recipe.
type Policy struct {
	MinConfidence   int
	MinVerification int
	WarnBelow       int
	StrongWarnBelow int
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinConfidence:   70,
		MinVerification: 30,
		WarnBelow:       80,
		StrongWarnBelow: 60,
	}
}

// PolicyFromConfig reads thresholds from the pipeline config, keeping the
// default for any value that is not positive.
func PolicyFromConfig(cfg config.PipelineConfig) Policy {
	p := DefaultPolicy()
	if cfg.MinConfidence > 0 {
		p.MinConfidence = cfg.MinConfidence
	}
	if cfg.MinVerification > 0 {
		p.MinVerification = cfg.MinVerification
	}
	if cfg.WarnVerification > 0 {
		p.WarnBelow = cfg.WarnVerification
	}
	if cfg.StrongWarnBelow > 0 {
		p.StrongWarnBelow = cfg.StrongWarnBelow
	}
	return p
}

// CheckConfidence rejects scores below MinConfidence.
func (p Policy) CheckConfidence(score int) error {
	if score < p.MinConfidence {
		return apperrors.NewLowConfidenceError(
			fmt.Sprintf("confidence %d is below the minimum of %d", score, p.MinConfidence))
	}
	return nil
}

// CheckVerification rejects scores below MinVerification and returns a
// warning for accepted scores below WarnBelow.
func (p Policy) CheckVerification(score int) (string, error) {
	switch {
	case score < p.MinVerification:
		return "", apperrors.NewLowVerificationError(
			fmt.Sprintf("only %d%% of ingredients were found in the page", score))
	case score < p.StrongWarnBelow:
		return fmt.Sprintf("only %d%% of ingredients were found in the page; review the list carefully", score), nil
	case score < p.WarnBelow:
		return fmt.Sprintf("%d%% of ingredients were found in the page; some may be inaccurate", score), nil
	}
	return "", nil
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package imagegen turns prompts into image URLs.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrUnknownProvider = errors.New("unknown image provider")
	ErrMissingKey      = errors.New("image provider requires an API key")
	ErrEmptyResponse   = errors.New("provider returned no image")
)

// Providers lists the names accepted by New.
var Providers = []string{"mock", "stock", "together"}

// Generator produces the URL of an image depicting prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Options struct {
	Provider string

	MockDelay time.Duration

	TogetherURL   string
	TogetherKey   string
	TogetherModel string
	Timeout       time.Duration
}

// New builds the generator named by opts.Provider.
func New(opts Options) (Generator, error) {
	switch opts.Provider {
	case "mock":
		return &Mock{Delay: opts.MockDelay}, nil
	case "stock":
		return NewStock(), nil
	case "together":
		if opts.TogetherKey == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, opts.Provider)
		}

		return NewTogether(opts.TogetherURL, opts.TogetherKey, opts.TogetherModel, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownProvider, opts.Provider, Providers)
	}
}

// ValidProvider reports whether New accepts name.
func ValidProvider(name string) bool {
	return slices.Contains(Providers, name)
}

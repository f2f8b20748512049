/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package imagegen

import (
	"context"
	"fmt"
	"time"
)

// Mock returns a placeholder image that is stable per prompt, after Delay.
type Mock struct {
	Delay time.Duration
}

func (m *Mock) Name() string {
	return "mock"
}

func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	timer := time.NewTimer(m.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	return fmt.Sprintf("https://picsum.photos/512/512?random=%d", promptSeed(prompt)), nil
}

// promptSeed is the classic 31-multiplier string hash, wrapped to 32 bits.
func promptSeed(prompt string) int64 {
	var h int32

	for _, c := range prompt {
		h = (h << 5) - h + int32(c)
	}

	seed := int64(h)
	if seed < 0 {
		seed = -seed
	}

	return seed
}

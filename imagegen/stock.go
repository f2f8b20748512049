/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package imagegen

import (
	"context"
	"math/rand/v2"
)

var StockImages = []string{
	"https://images.unsplash.com/photo-1574158622682-e40e69881006?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1518717758536-85ae29035b6d?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1485827404703-89b55fcc595e?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1490750967868-88aa4486c946?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1551963831-b3b1ca40c98e?w=512&h=512&fit=crop",
	"https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=512&h=512&fit=crop",
}

// Stock ignores the prompt and picks one of Images.
type Stock struct {
	Images []string
	Intn   func(n int) int
}

func NewStock() *Stock {
	return &Stock{Images: StockImages, Intn: rand.IntN}
}

func (s *Stock) Name() string {
	return "stock"
}

func (s *Stock) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(s.Images) == 0 {
		return "", ErrEmptyResponse
	}

	return s.Images[s.Intn(len(s.Images))], nil
}

//go:build android || ios

// Package mobile binds the planar two-player match for ebitenmobile:
//
//	ebitenmobile bind -target android -javapkg com.touchpitch -o touchpitch.aar ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"touchpitch/game"
)

func init() {
	g, err := game.NewGame(game.MobileConfig(), game.NewDeviceInput())
	if err != nil {
		log.Fatalf("failed to create mobile game: %v", err)
	}
	mobile.SetGame(g, nil)
}

// Dummy is exported so gomobile emits a binding for this package.
func Dummy() {}

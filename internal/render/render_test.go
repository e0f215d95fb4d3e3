package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"tinyboard/internal/board"
	"tinyboard/internal/game"
)

func TestSquaresGrid(t *testing.T) {
	c := game.NewController(game.Options{})
	views, err := Squares(c.Snapshot())
	if err != nil {
		t.Fatalf("Squares: %v", err)
	}
	if len(views) != 64 {
		t.Fatalf("expected 64 squares, got %d", len(views))
	}
	pieces := 0
	for i, v := range views {
		if v.Row != i/8 || v.Col != i%8 {
			t.Fatalf("square %d out of order: (%d,%d)", i, v.Row, v.Col)
		}
		wantColor := "b-board"
		if (v.Row+v.Col)%2 == 0 {
			wantColor = "w-board"
		}
		if !strings.Contains(v.Classes, wantColor) || !strings.HasPrefix(v.Classes, "square ") {
			t.Fatalf("square (%d,%d) classes %q", v.Row, v.Col, v.Classes)
		}
		if v.Piece != nil {
			pieces++
			if !v.Piece.Draggable || v.Piece.Node == "" {
				t.Fatalf("piece on (%d,%d) not draggable or missing node", v.Row, v.Col)
			}
		}
	}
	if pieces != 32 {
		t.Fatalf("expected 32 pieces, got %d", pieces)
	}
	if src := views[0].Piece.Src; src != "/assets/Black/b-rook.svg" {
		t.Fatalf("unexpected src for a8: %q", src)
	}
	if src := views[60].Piece.Src; src != "/assets/White/w-king.svg" {
		t.Fatalf("unexpected src for e1: %q", src)
	}
}

func TestSquaresHighlight(t *testing.T) {
	c := game.NewController(game.Options{})
	c.Click(board.Sq(6, 2))
	views, err := Squares(c.Snapshot())
	if err != nil {
		t.Fatalf("Squares: %v", err)
	}
	for _, v := range views {
		hl := strings.Contains(v.Classes, "highlighted")
		if hl != (v.Row == 6 && v.Col == 2) {
			t.Fatalf("unexpected highlight state on (%d,%d): %q", v.Row, v.Col, v.Classes)
		}
	}
}

func TestSquaresMissingAsset(t *testing.T) {
	snap := game.NewController(game.Options{}).Snapshot()
	snap.Board[4][4] = "w-x"
	if _, err := Squares(snap); !errors.Is(err, ErrNoAsset) {
		t.Fatalf("expected ErrNoAsset, got %v", err)
	}
}

func TestPNG(t *testing.T) {
	snap := game.NewController(game.Options{}).Snapshot()
	data, err := PNG(context.Background(), snap, 256)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if _, err := PNG(context.Background(), snap, 10); err == nil {
		t.Fatalf("expected error for tiny size")
	}
}

func TestPNGCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PNG(ctx, game.NewController(game.Options{}).Snapshot(), 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

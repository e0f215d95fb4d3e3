// Package assets maps piece identifiers to their SVG images and serves them.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"tinyboard/internal/board"
)

//go:embed files
var files embed.FS

// Prefix is the URL path the piece images are served under.
const Prefix = "/assets/"

// ErrNoAsset is returned when a piece identifier has no image entry.
var ErrNoAsset = errors.New("no asset for piece")

var pieceMap = buildPieceMap()

func buildPieceMap() map[board.Piece]string {
	m := make(map[board.Piece]string, 12)
	for _, c := range []board.Color{board.White, board.Black} {
		for _, r := range board.Roles {
			m[board.NewPiece(c, r)] = fmt.Sprintf("%s%s/%s-%s.svg", Prefix, c.Name(), c, r.Name())
		}
	}
	return m
}

// Path returns the image URL for p, e.g. "/assets/White/w-rook.svg".
func Path(p board.Piece) (string, bool) {
	src, ok := pieceMap[p]
	return src, ok
}

// Pieces returns every identifier in the lookup table.
func Pieces() []board.Piece {
	out := make([]board.Piece, 0, len(pieceMap))
	for p := range pieceMap {
		out = append(out, p)
	}
	return out
}

// SVG returns the raw image for p.
func SVG(p board.Piece) ([]byte, error) {
	src, ok := Path(p)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoAsset, p)
	}
	name := "files/" + strings.TrimPrefix(src, Prefix)
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	return data, nil
}

// Handler serves the embedded images. Mount it at Prefix.
func Handler() http.Handler {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.StripPrefix(Prefix, http.FileServer(filesOnly{http.FS(sub)}))
}

// filesOnly hides directories so the file server never lists them.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

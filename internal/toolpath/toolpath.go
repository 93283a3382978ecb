// Package toolpath computes tool motion for the block family produced by the
// native host. Coordinates are millimetres in the part frame: XY origin at the
// block centre, Z=0 on the finished top face.
package toolpath

import (
	"fmt"
	"math"
)

type MoveKind int

const (
	Rapid MoveKind = iota
	Feed
	Plunge
)

func (k MoveKind) String() string {
	switch k {
	case Rapid:
		return "rapid"
	case Feed:
		return "feed"
	case Plunge:
		return "plunge"
	default:
		return "unknown"
	}
}

type Point struct {
	X, Y, Z float64
}

type Move struct {
	Kind MoveKind
	To   Point
	Rate float64
}

// Toolpath is an ordered list of moves for one operation
type Toolpath struct {
	Moves    []Move
	Warnings []string
}

func (t *Toolpath) rapid(p Point) {
	t.Moves = append(t.Moves, Move{Kind: Rapid, To: p})
}

func (t *Toolpath) feed(p Point, rate float64) {
	t.Moves = append(t.Moves, Move{Kind: Feed, To: p, Rate: rate})
}

func (t *Toolpath) plunge(p Point, rate float64) {
	t.Moves = append(t.Moves, Move{Kind: Plunge, To: p, Rate: rate})
}

func (t *Toolpath) warnf(format string, args ...interface{}) {
	t.Warnings = append(t.Warnings, fmt.Sprintf(format, args...))
}

// Bounds returns the extent of all moves
func (t *Toolpath) Bounds() (min, max Point) {
	min = Point{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	max = Point{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for _, m := range t.Moves {
		min.X = math.Min(min.X, m.To.X)
		min.Y = math.Min(min.Y, m.To.Y)
		min.Z = math.Min(min.Z, m.To.Z)
		max.X = math.Max(max.X, m.To.X)
		max.Y = math.Max(max.Y, m.To.Y)
		max.Z = math.Max(max.Z, m.To.Z)
	}
	return min, max
}

// Block is the regenerated part as seen by CAM
type Block struct {
	Width        float64
	Height       float64
	Thickness    float64
	HoleDiameter float64
}

// Params are the cutting parameters of one operation
type Params struct {
	ToolDiameter float64
	Stepover     float64 // fraction of the tool diameter
	Stepdown     float64
	Depth        float64
	Peck         float64
	Feed         float64
	Plunge       float64
	SafeZ        float64
	StockOffset  float64
}

func (p Params) radius() float64 {
	return p.ToolDiameter / 2
}

func (p Params) plungeRate() float64 {
	if p.Plunge > 0 {
		return p.Plunge
	}
	return p.Feed / 3
}

func (p Params) validate() error {
	if p.ToolDiameter <= 0 {
		return fmt.Errorf("tool diameter must be positive")
	}
	if p.Feed <= 0 {
		return fmt.Errorf("feed rate must be positive")
	}
	return nil
}

// levels returns the cutting depths from the first step down to -depth inclusive
func levels(stepdown, depth float64) []float64 {
	var zs []float64
	for z := -stepdown; z > -depth+1e-9; z -= stepdown {
		zs = append(zs, z)
	}
	return append(zs, -depth)
}

// Facing clears the stock offset above the top face with a zig-zag pattern
func Facing(b Block, p Params) (*Toolpath, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Stepover <= 0 || p.Stepover > 1 {
		return nil, fmt.Errorf("stepover must be in (0, 1], got %g", p.Stepover)
	}
	if p.Stepdown <= 0 {
		return nil, fmt.Errorf("stepdown must be positive")
	}

	path := &Toolpath{}
	depth := p.Depth
	if depth <= 0 {
		depth = p.StockOffset
	}
	if depth <= 0 {
		path.warnf("no stock to face, cutting a single skim pass at Z0")
	}

	// Cover the stock footprint plus one tool radius beyond every edge
	halfX := b.Width/2 + p.StockOffset + p.radius()
	halfY := b.Height/2 + p.StockOffset + p.radius()
	step := p.Stepover * p.ToolDiameter

	// Faced depths are measured from the stock top, which sits StockOffset above Z0
	top := p.StockOffset
	var zs []float64
	if depth > 0 {
		for _, z := range levels(p.Stepdown, depth) {
			zs = append(zs, top+z)
		}
	} else {
		zs = []float64{0}
	}

	path.rapid(Point{-halfX, -halfY, p.SafeZ})
	for _, z := range zs {
		path.rapid(Point{-halfX, -halfY, p.SafeZ})
		path.plunge(Point{-halfX, -halfY, z}, p.plungeRate())

		x := -halfX
		dir := 1.0
		for y := -halfY; ; y += step {
			if y > halfY {
				y = halfY
			}
			path.feed(Point{x, y, z}, p.Feed)
			x = dir * halfX
			path.feed(Point{x, y, z}, p.Feed)
			dir = -dir
			if y >= halfY {
				break
			}
		}
		path.rapid(Point{x, halfY, p.SafeZ})
	}
	return path, nil
}

// Contour cuts the outside profile through the full thickness
func Contour(b Block, p Params) (*Toolpath, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Stepdown <= 0 {
		return nil, fmt.Errorf("stepdown must be positive")
	}
	if b.Thickness <= 0 {
		return nil, fmt.Errorf("part thickness must be positive")
	}

	path := &Toolpath{}
	if p.Stepdown > p.ToolDiameter {
		path.warnf("stepdown %.3f exceeds tool diameter %.3f", p.Stepdown, p.ToolDiameter)
	}

	hx := b.Width/2 + p.radius()
	hy := b.Height/2 + p.radius()
	corners := []Point{{-hx, -hy, 0}, {hx, -hy, 0}, {hx, hy, 0}, {-hx, hy, 0}}

	path.rapid(Point{-hx, -hy, p.SafeZ})
	for _, z := range levels(p.Stepdown, b.Thickness) {
		path.plunge(Point{-hx, -hy, z}, p.plungeRate())
		for _, c := range corners[1:] {
			path.feed(Point{c.X, c.Y, z}, p.Feed)
		}
		path.feed(Point{-hx, -hy, z}, p.Feed)
	}
	path.rapid(Point{-hx, -hy, p.SafeZ})
	return path, nil
}

// Drill peck-drills the centre hole through the part
func Drill(b Block, p Params) (*Toolpath, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if b.HoleDiameter <= 0 {
		return nil, fmt.Errorf("design has no hole to drill")
	}

	path := &Toolpath{}
	if b.HoleDiameter < p.ToolDiameter {
		path.warnf("tool diameter %.3f is larger than hole %.3f", p.ToolDiameter, b.HoleDiameter)
	}

	peck := p.Peck
	if peck <= 0 {
		peck = b.Thickness
	}

	path.rapid(Point{0, 0, p.SafeZ})
	for _, z := range levels(peck, b.Thickness) {
		path.plunge(Point{0, 0, z}, p.Feed)
		path.rapid(Point{0, 0, p.SafeZ})
	}
	return path, nil
}

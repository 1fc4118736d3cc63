package cdg

// Framebuffer geometry constants, fixed by the CD+G display model.
const (
	Width  = 300
	Height = 216
	TilesX = 50
	TilesY = 18
	TileW  = 6
	TileH  = 12
)

// Rect is a tile-coordinate rectangle, [X0,X1) x [Y0,Y1), used to
// bound dirty regions for GPU upload.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// RGBA is an 8-bit-per-channel readout color.
type RGBA struct {
	R, G, B, A uint8
}

// Interpreter maintains CD+G framebuffer state: indexed pixels, the
// torus scroll origin, palette, border, and transparency.
type Interpreter struct {
	content [Height][Width]uint8

	tileShiftX, tileShiftY   uint16
	pixelShiftX, pixelShiftY uint16

	clut        [16]RGB12
	border      uint8
	transparent uint8 // 0..15, or 255 meaning "none"
	borderTiles int

	dirty    Rect
	hasDirty bool
}

// NewInterpreter returns a fresh interpreter with no transparency and
// a one-tile-wide border.
func NewInterpreter() *Interpreter {
	return &Interpreter{transparent: 255, borderTiles: 1}
}

// BorderTiles configures how many tiles deep the border region is on
// each edge. Default is 1.
func (it *Interpreter) BorderTiles(n int) {
	it.borderTiles = n
}

func (it *Interpreter) invalidateAll() {
	it.dirty = Rect{0, 0, TilesX, TilesY}
	it.hasDirty = true
}

func (it *Interpreter) invalidateTile(x, y int) {
	if !it.hasDirty {
		it.dirty = Rect{x, y, x + 1, y + 1}
		it.hasDirty = true
		return
	}
	if x < it.dirty.X0 {
		it.dirty.X0 = x
	}
	if y < it.dirty.Y0 {
		it.dirty.Y0 = y
	}
	if x+1 > it.dirty.X1 {
		it.dirty.X1 = x + 1
	}
	if y+1 > it.dirty.Y1 {
		it.dirty.Y1 = y + 1
	}
}

// Dirty returns the accumulated dirty tile rectangle and whether any
// invalidation has occurred since the last ClearDirty.
func (it *Interpreter) Dirty() (Rect, bool) {
	return it.dirty, it.hasDirty
}

// ClearDirty resets the dirty-tracking state.
func (it *Interpreter) ClearDirty() {
	it.dirty = Rect{}
	it.hasDirty = false
}

// Reset clears the framebuffer, scroll origins, and border; it also
// clears the palette when resetPalette is true.
func (it *Interpreter) Reset(resetPalette bool) {
	for y := range it.content {
		for x := range it.content[y] {
			it.content[y][x] = 0
		}
	}
	it.tileShiftX, it.tileShiftY = 0, 0
	it.pixelShiftX, it.pixelShiftY = 0, 0
	it.border = 0
	it.transparent = 255
	if resetPalette {
		it.clut = [16]RGB12{}
	}
	it.invalidateAll()
}

// Border returns the current border CLUT index.
func (it *Interpreter) Border() uint8 {
	return it.border
}

// HandleCmd applies one decoded command to the interpreter state.
func (it *Interpreter) HandleCmd(cmd Command) {
	switch cmd.Kind {
	case CmdMemoryPreset:
		if cmd.Repeat == 0 {
			for y := range it.content {
				for x := range it.content[y] {
					it.content[y][x] = cmd.Color
				}
			}
			it.invalidateAll()
		}
	case CmdBorderPreset:
		it.border = cmd.Color
		it.invalidateAll()
	case CmdTileNormal:
		it.writeTile(cmd.Tile, false)
	case CmdTileXOR:
		it.writeTile(cmd.Tile, true)
	case CmdScroll:
		it.scroll(cmd)
	case CmdSetTransparent:
		it.transparent = cmd.Color
		it.invalidateAll()
	case CmdLoadPalette:
		for i := range cmd.Palette {
			it.clut[int(cmd.PaletteOffset)+i] = cmd.Palette[i]
		}
		it.invalidateAll()
	}
}

func (it *Interpreter) writeTile(tile Tile, xor bool) {
	tx := (int(tile.PosX) + int(it.tileShiftX)) % TilesX
	ty := (int(tile.PosY) + int(it.tileShiftY)) % TilesY
	baseX := tx * TileW
	baseY := ty * TileH
	for row := 0; row < TileH; row++ {
		for col := 0; col < TileW; col++ {
			px := tile.GetPixel(uint8(col), uint8(row))
			y := baseY + row
			x := baseX + col
			if xor {
				it.content[y][x] ^= px
			} else {
				it.content[y][x] = px
			}
		}
	}
	it.invalidateTile(tx, ty)
}

func (it *Interpreter) clearEdge(horizontal bool, fill uint8) {
	if horizontal {
		baseX := int(it.tileShiftX) * TileW
		for row := 0; row < Height; row++ {
			for col := 0; col < TileW; col++ {
				it.content[row][baseX+col] = fill
			}
		}
		return
	}
	baseY := int(it.tileShiftY) * TileH
	for row := 0; row < TileH; row++ {
		for col := 0; col < Width; col++ {
			it.content[baseY+row][col] = fill
		}
	}
}

func (it *Interpreter) scrollAxis(dir ScrollDir, horizontal bool, fill uint8, hasFill bool) {
	switch dir {
	case ScrollNoop:
		return
	case ScrollNW:
		if hasFill {
			it.clearEdge(horizontal, fill)
		}
		if horizontal {
			it.tileShiftX = (it.tileShiftX + 1) % TilesX
		} else {
			it.tileShiftY = (it.tileShiftY + 1) % TilesY
		}
	case ScrollSE:
		if horizontal {
			it.tileShiftX = (it.tileShiftX + TilesX - 1) % TilesX
		} else {
			it.tileShiftY = (it.tileShiftY + TilesY - 1) % TilesY
		}
		if hasFill {
			it.clearEdge(horizontal, fill)
		}
	}
}

func (it *Interpreter) scroll(cmd Command) {
	it.scrollAxis(cmd.HScroll, true, cmd.FillColor, cmd.HasFillColor)
	it.scrollAxis(cmd.VScroll, false, cmd.FillColor, cmd.HasFillColor)
	it.pixelShiftX = uint16(cmd.XOffset) % TileW
	it.pixelShiftY = uint16(cmd.YOffset) % TileH
	it.invalidateAll()
}

// IsBorderPixel reports whether the given display pixel falls within
// the configured border extent.
func (it *Interpreter) IsBorderPixel(x, y int) bool {
	bt := it.borderTiles
	tx := x / TileW
	ty := y / TileH
	return tx < bt || tx >= TilesX-bt || ty < bt || ty >= TilesY-bt
}

// GetPixel reads out the display pixel at (x,y), x in 0..299, y in
// 0..215, through the current torus scroll origin, expanding the
// CLUT entry to 8 bits per channel and reporting alpha=0 for the
// transparent index.
func (it *Interpreter) GetPixel(x, y int) RGBA {
	sx := (x + int(it.tileShiftX)*TileW) % Width
	sy := (y + int(it.tileShiftY)*TileH) % Height
	idx := it.content[sy][sx]
	r, g, b := it.clut[idx].RGBA8()
	a := uint8(255)
	if int(idx) == int(it.transparent) {
		a = 0
	}
	return RGBA{R: r, G: g, B: b, A: a}
}

// RenderPixel is the display-path readout: pixels within the
// configured border extent render as the opaque border color, all
// others as GetPixel.
func (it *Interpreter) RenderPixel(x, y int) RGBA {
	if it.IsBorderPixel(x, y) {
		r, g, b := it.clut[it.border].RGBA8()
		return RGBA{R: r, G: g, B: b, A: 255}
	}
	return it.GetPixel(x, y)
}

package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

// TGA errors.
var (
	ErrTGATruncated   = errors.New("tga data truncated")
	ErrTGAUnsupported = errors.New("unsupported tga")
)

const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed or RLE true-color TGA with 24 or 32
// bits per pixel. Rows are returned top to bottom regardless of the
// origin bit in the header.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: type %d", ErrTGAUnsupported, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrTGAUnsupported, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	r := tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		stride:      bpp / 8,
		topToBottom: topToBottom,
	}
	var err error
	if imageType == TGATypeUncompressed {
		err = r.raw()
	} else {
		err = r.rle()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	img         *image.RGBA
	src         []byte
	pos         int
	stride      int
	topToBottom bool
}

// pixel reads one BGR(A) pixel.
func (r *tgaReader) pixel() ([4]byte, bool) {
	if r.pos+r.stride > len(r.src) {
		return [4]byte{}, false
	}
	p := r.src[r.pos:]
	r.pos += r.stride
	a := byte(255)
	if r.stride == 4 {
		a = p[3]
	}
	return [4]byte{p[2], p[1], p[0], a}, true
}

// put stores c at linear pixel index n in file order.
func (r *tgaReader) put(n int, c [4]byte) {
	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	x, y := n%w, n/w
	if !r.topToBottom {
		y = h - 1 - y
	}
	copy(r.img.Pix[r.img.PixOffset(x, y):], c[:])
}

func (r *tgaReader) raw() error {
	total := r.img.Rect.Dx() * r.img.Rect.Dy()
	for n := 0; n < total; n++ {
		c, ok := r.pixel()
		if !ok {
			return ErrTGATruncated
		}
		r.put(n, c)
	}
	return nil
}

// rle decodes run-length packets. A short stream leaves the remaining
// pixels transparent.
func (r *tgaReader) rle() error {
	total := r.img.Rect.Dx() * r.img.Rect.Dy()
	n := 0
	for n < total && r.pos < len(r.src) {
		header := r.src[r.pos]
		r.pos++
		count := int(header&0x7f) + 1

		if header&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				return nil
			}
			for i := 0; i < count && n < total; i++ {
				r.put(n, c)
				n++
			}
			continue
		}

		for i := 0; i < count && n < total; i++ {
			c, ok := r.pixel()
			if !ok {
				return nil
			}
			r.put(n, c)
			n++
		}
	}
	return nil
}

package webapp

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Phone selfies routinely run to several megabytes; everything is scaled
// down before it goes over the wire to the backend.
const selfieMaxEdge = 1024

// normalizeSelfie decodes an uploaded selfie, caps its longest edge, and
// re-encodes it as jpeg so the backend always receives one predictable
// format at a bounded size.
func normalizeSelfie(raw []byte) ([]byte, error) {
	mime := http.DetectContentType(raw)
	switch mime {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, errors.New("selfie must be png, jpeg, or webp")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		decoded, decodeErr := webp.Decode(bytes.NewReader(raw))
		if decodeErr != nil {
			return nil, errors.New("unable to decode selfie")
		}
		img = decoded
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid selfie dimensions")
	}

	targetWidth, targetHeight := width, height
	if width > selfieMaxEdge || height > selfieMaxEdge {
		if width >= height {
			targetWidth = selfieMaxEdge
			targetHeight = height * selfieMaxEdge / width
		} else {
			targetHeight = selfieMaxEdge
			targetWidth = width * selfieMaxEdge / height
		}
		if targetWidth < 1 {
			targetWidth = 1
		}
		if targetHeight < 1 {
			targetHeight = 1
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, xdraw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, resized, &jpeg.Options{Quality: 82}); err != nil {
		return nil, errors.New("unable to encode selfie")
	}
	return out.Bytes(), nil
}

package swap

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// jpegQuality balances artifact quality against page load time.
const jpegQuality = 85

// decodeImage decodes the bytes and returns the image with its dimensions.
func decodeImage(data []byte) (image.Image, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("could not decode image: %w", err)
	}
	bounds := img.Bounds()
	return img, bounds.Dx(), bounds.Dy(), nil
}

// resizeToFit scales the image down so its longest side is maxSize, keeping
// aspect ratio, and re-encodes it as JPEG. Returns the new bytes and
// dimensions. Images already within maxSize are re-encoded unchanged.
func resizeToFit(data []byte, maxSize int) ([]byte, int, int, error) {
	img, width, height, err := decodeImage(data)
	if err != nil {
		return nil, 0, 0, err
	}

	if width <= maxSize && height <= maxSize {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, 0, 0, fmt.Errorf("could not encode image: %w", err)
		}
		return buf.Bytes(), width, height, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		newHeight = maxSize
		newWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("could not encode resized image: %w", err)
	}
	return buf.Bytes(), newWidth, newHeight, nil
}

package docstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
)

// Cloudinary stores blobs in a Cloudinary media library, using the document
// key (minus its extension) as the public ID so deletes can address the
// same asset later.
type Cloudinary struct {
	client *cloudinary.Cloudinary
}

// NewCloudinary builds a Cloudinary-backed blob store from a
// cloudinary:// credentials URL.
func NewCloudinary(url string) (*Cloudinary, error) {
	client, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &Cloudinary{client: client}, nil
}

// publicID strips the file extension; Cloudinary appends its own format
// suffix on delivery.
func publicID(key string) string {
	if i := strings.LastIndex(key, "."); i > strings.LastIndex(key, "/") {
		return key[:i]
	}
	return key
}

func (c *Cloudinary) Store(ctx context.Context, key string, data []byte) error {
	_, err := c.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID(key),
		ResourceType: "raw",
	})
	if err != nil {
		return fmt.Errorf("cloudinary upload %s: %w", key, err)
	}
	return nil
}

func (c *Cloudinary) Delete(ctx context.Context, key string) error {
	_, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID(key),
		ResourceType: "raw",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", key, err)
	}
	return nil
}

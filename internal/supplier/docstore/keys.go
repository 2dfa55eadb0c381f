package docstore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"aseara/internal/supplier/models"
	id "aseara/pkg/domain"
)

// defaultExt is used when the uploaded filename has no usable extension.
const defaultExt = ".bin"

// ext derives a lowercase file extension from the original filename,
// falling back to a generic binary extension.
func ext(filename string) string {
	e := strings.ToLower(filepath.Ext(filename))
	if e == "" || e == "." {
		return defaultExt
	}
	return e
}

// DocumentKey builds the content-addressed storage locator for a supplier
// document:
//
//	suppliers/{supplierID}/documents/{kind}/{randomID}{ext}
//
// The random token is a fresh UUID; uniqueness is probabilistic and no
// collision check is performed against existing keys.
func DocumentKey(supplierID id.SupplierID, kind models.DocumentKind, filename string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("suppliers/%s/documents/%s/%s%s", supplierID, kind, token, ext(filename))
}

package models

import (
	"time"

	id "aseara/pkg/domain"
)

// DocumentKind discriminates the three dossier document slots.
type DocumentKind string

const (
	KindRegistrationCert DocumentKind = "registration_cert"
	KindBankVerification DocumentKind = "bank_verification"
	KindDirectorID       DocumentKind = "director_id"
)

// DocumentKinds lists every slot, in the order the form presents them.
func DocumentKinds() []DocumentKind {
	return []DocumentKind{KindRegistrationCert, KindBankVerification, KindDirectorID}
}

// IsValid reports whether k names a known document slot.
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindRegistrationCert, KindBankVerification, KindDirectorID:
		return true
	}
	return false
}

func (k DocumentKind) String() string { return string(k) }

// SupplierDocument is one live document per (supplier, kind). Replacing a
// document of the same kind overwrites this row in place with a new storage
// key; there is no history.
type SupplierDocument struct {
	ID          id.DocumentID `json:"id"`
	SupplierID  id.SupplierID `json:"supplier_id"`
	Kind        DocumentKind  `json:"kind"`
	Key         string        `json:"key"`
	ContentType string        `json:"content_type"`
	SizeBytes   int64         `json:"size_bytes"`
	CreatedAt   time.Time     `json:"created_at"`
}

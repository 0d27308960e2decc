package models

import "time"

// DocumentType is the fixed vocabulary for enrollment documents.
type DocumentType string

const (
	DocPSABirth  DocumentType = "PSA_BIRTH"
	DocGoodMoral DocumentType = "GOOD_MORAL"
	DocIDPicture DocumentType = "ID_PICTURE"
	DocOthers    DocumentType = "OTHERS"
)

// docTypeByName maps the free-text document names used on enrollment forms to
// the stored vocabulary. Unrecognized names fall back to OTHERS.
var docTypeByName = map[string]DocumentType{
	"PSA Birth Certificate":               DocPSABirth,
	"Certificate of Good Moral Character": DocGoodMoral,
	"2x2 ID Pictures":                     DocIDPicture,
}

// MapDocumentName resolves a form document name to its stored type tag.
func MapDocumentName(name string) DocumentType {
	if t, ok := docTypeByName[name]; ok {
		return t
	}
	return DocOthers
}

// Document is an attachment record tied to a student.
type Document struct {
	ID         int64        `db:"id" json:"id"`
	StudentID  *int64       `db:"student_id" json:"student_id,omitempty"`
	DocType    DocumentType `db:"doc_type" json:"doc_type"`
	FilePath   string       `db:"file_path" json:"file_path"`
	UploadedBy *int64       `db:"uploaded_by" json:"uploaded_by,omitempty"`
	UploadedAt time.Time    `db:"uploaded_at" json:"uploaded_at"`
	Notes      *string      `db:"notes" json:"notes,omitempty"`
}

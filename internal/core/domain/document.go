package domain

import "time"

// DocumentVersion identifies the serialized document layout.
const DocumentVersion = "1.0.0"

// Settings is the configuration block carried inside the document.
// LastUpdated is the reconciliation timestamp: whichever copy of the
// document (local store or sync folder file) carries the strictly later
// value wins a reconcile, at whole-document granularity.
type Settings struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
	Owner       string    `json:"owner"`
}

// Document is the whole serialized dataset: every client with its embedded
// debts and payments, plus the settings block. The local store and the sync
// folder file both hold exactly this shape.
type Document struct {
	Clients  []Client `json:"clients"`
	Settings Settings `json:"settings"`
}

// NewDocument returns an empty seed document.
func NewDocument(owner string, now time.Time) *Document {
	return &Document{
		Clients: []Client{},
		Settings: Settings{
			LastUpdated: now,
			Version:     DocumentVersion,
			Owner:       owner,
		},
	}
}

// FindClient returns a pointer into the document's client slice, or nil when absent.
func (d *Document) FindClient(clientID string) *Client {
	for i := range d.Clients {
		if d.Clients[i].ClientID == clientID {
			return &d.Clients[i]
		}
	}
	return nil
}

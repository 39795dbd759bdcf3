package state

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
)

// The serialized form is an opaque JSON document. Bucket order is
// meaningful: buckets serialize as an array in catalog declaration order
// so two serializations of the same logical state are byte-identical.

// bucketBlob is one bucket's serialized form.
type bucketBlob struct {
	BucketID models.BucketID `json:"bucket_id"`
	Entries  []models.Entry  `json:"entries"`
}

// serializedConversation is the on-the-wire shape of a Conversation.
type serializedConversation struct {
	Conversation
	BucketList []bucketBlob `json:"buckets"`
}

// Serialize encodes the conversation deterministically.
func (c *Conversation) Serialize() ([]byte, error) {
	blob := serializedConversation{Conversation: *c}
	blob.BucketList = make([]bucketBlob, 0, len(catalog.IDs()))
	for _, id := range catalog.IDs() {
		entries := c.Buckets[id]
		if entries == nil {
			entries = []models.Entry{}
		}
		blob.BucketList = append(blob.BucketList, bucketBlob{BucketID: id, Entries: entries})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blob); err != nil {
		return nil, fmt.Errorf("failed to serialize conversation: %w", err)
	}
	// Encoder appends a newline; the blob is stored verbatim, so trim it.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Deserialize rebuilds a conversation from a serialized blob. Buckets
// added to the catalog after the blob was written are restored empty, so
// the every-bucket-present invariant holds across versions.
func Deserialize(blob []byte) (*Conversation, error) {
	var decoded serializedConversation
	if err := json.Unmarshal(blob, &decoded); err != nil {
		return nil, fmt.Errorf("failed to deserialize conversation: %w", err)
	}
	if decoded.SessionID == "" {
		return nil, fmt.Errorf("deserialized conversation has no session id")
	}

	c := decoded.Conversation
	c.Buckets = make(map[models.BucketID][]models.Entry, len(catalog.IDs()))
	for _, id := range catalog.IDs() {
		c.Buckets[id] = []models.Entry{}
	}
	for _, b := range decoded.BucketList {
		if _, ok := catalog.Get(b.BucketID); !ok {
			// Unknown bucket in the blob: dropped rather than resurrected.
			continue
		}
		entries := b.Entries
		if entries == nil {
			entries = []models.Entry{}
		}
		c.Buckets[b.BucketID] = entries
	}
	if c.Messages == nil {
		c.Messages = []models.Message{}
	}
	if c.Momentum == "" {
		c.Momentum = MomentumSteady
	}
	return &c, nil
}

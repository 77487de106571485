package jofotara

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// CanonicalDigest returns the hex SHA-256 of the canonicalized (C14N) form of
// a generated document. Recorded next to the artifact so an audited file can
// be matched against what was actually built.
func CanonicalDigest(xmlDoc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlDoc))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("jofotara: canonicalize: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

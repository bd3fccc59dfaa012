package schema

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const defaultVersion = "V1"

// Identity is the allocated identifier triple for a document.
type Identity struct {
	ExternalID string
	Version    string
	UniqueKey  string
}

// Allocate derives the identifier triple from whatever the client supplied.
// A non-blank external id is used verbatim; otherwise one is generated as
// {PREFIX}-{yyyyMMddHHmmss}-{3 random digits}. The composite key is always
// recomputed from the parts, never trusted from the client.
func Allocate(prefix, externalID, version string) Identity {
	id := strings.TrimSpace(externalID)
	if id == "" {
		id = fmt.Sprintf("%s-%s-%03d", prefix, time.Now().Format("20060102150405"), rand.Intn(1000))
	}

	ver := strings.TrimSpace(version)
	if ver == "" {
		ver = defaultVersion
	}

	return Identity{
		ExternalID: id,
		Version:    ver,
		UniqueKey:  id + "_" + ver,
	}
}

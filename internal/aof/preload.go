package aof

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
	"github.com/GopeshSingal/gofast-server/internal/store"
)

// PreloadSeed is one entry of an optional developer seed file: a string
// key and value applied via SET before AOF replay runs. The file format
// is hujson (JSON-with-comments) so operators can annotate fixtures.
type PreloadSeed struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LoadPreload parses path as hujson into a list of seed keys and applies
// them to engine as SET commands, with AOF journaling disabled by the
// caller's engine configuration. A missing path is not an error.
func LoadPreload(path string, engine *store.Engine) (int, error) {
	if path == "" {
		return 0, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("aof: read preload file %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return 0, fmt.Errorf("aof: parse preload file %s: %w", path, err)
	}

	var seeds []PreloadSeed
	if err := json.Unmarshal(standardized, &seeds); err != nil {
		return 0, fmt.Errorf("aof: decode preload file %s: %w", path, err)
	}

	for _, s := range seeds {
		cmd := command.Command{Name: "SET", Args: [][]byte{[]byte(s.Key), []byte(s.Value)}}
		reply := engine.Apply(cmd)
		if reply.Type == resp.Error {
			return 0, fmt.Errorf("aof: preload key %q: %s", s.Key, reply.Str)
		}
	}
	return len(seeds), nil
}

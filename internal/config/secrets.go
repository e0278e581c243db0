package config

import (
	"context"
	"fmt"
	"regexp"
)

// SecretSource отдаёт значение секрета по пути и ключу.
type SecretSource interface {
	Secret(ctx context.Context, path, key string) (string, error)
}

var secretRef = regexp.MustCompile(`^VAULT:(\S+):(\S+)$`)

// Resolve заменяет строки вида VAULT:<path>:<key> на значения из src.
// Обходятся только вложенные объекты, массивы не трогаются.
func Resolve(ctx context.Context, tree map[string]any, src SecretSource) error {
	current := []map[string]any{tree}

	for len(current) > 0 {
		var next []map[string]any
		for _, node := range current {
			for key, v := range node {
				switch val := v.(type) {
				case map[string]any:
					next = append(next, val)
				case string:
					m := secretRef.FindStringSubmatch(val)
					if m == nil {
						continue
					}
					secret, err := src.Secret(ctx, m[1], m[2])
					if err != nil {
						return fmt.Errorf("resolve %s: %w", key, err)
					}
					node[key] = secret
				}
			}
		}
		current = next
	}

	return nil
}

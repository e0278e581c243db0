package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

type VaultSettings struct {
	Address      string
	MountPoint   string
	User         string
	PasswordFile string
}

// vaultSettingsFrom читает блок "vault" из project.json.
// Если блока нет или он неполный — подстановка пропускается.
func vaultSettingsFrom(tree map[string]any) (VaultSettings, bool) {
	block, ok := tree["vault"].(map[string]any)
	if !ok {
		return VaultSettings{}, false
	}

	get := func(key string) string {
		s, _ := block[key].(string)
		return strings.TrimSpace(s)
	}

	vs := VaultSettings{
		Address:      get("connect_string"),
		MountPoint:   get("mount_point"),
		User:         get("user"),
		PasswordFile: get("password_file"),
	}
	if vs.Address == "" || vs.MountPoint == "" || vs.User == "" || vs.PasswordFile == "" {
		return VaultSettings{}, false
	}
	return vs, true
}

type VaultSource struct {
	client *vault.Client
	mount  string
}

func NewVaultSource(ctx context.Context, s VaultSettings) (*VaultSource, error) {
	raw, err := os.ReadFile(s.PasswordFile)
	if err != nil {
		return nil, fmt.Errorf("read password file: %w", err)
	}

	cfg := vault.DefaultConfig()
	cfg.Address = s.Address

	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}

	login, err := client.Logical().WriteWithContext(ctx, "auth/userpass/login/"+s.User, map[string]any{
		"password": strings.TrimSpace(string(raw)),
	})
	if err != nil {
		return nil, fmt.Errorf("userpass login: %w", err)
	}
	if login == nil || login.Auth == nil || login.Auth.ClientToken == "" {
		return nil, fmt.Errorf("userpass login: empty token")
	}
	client.SetToken(login.Auth.ClientToken)

	return &VaultSource{
		client: client,
		mount:  strings.Trim(s.MountPoint, "/"),
	}, nil
}

// Secret читает KV v1.
func (v *VaultSource) Secret(ctx context.Context, path, key string) (string, error) {
	secret, err := v.client.Logical().ReadWithContext(ctx, v.mount+"/"+strings.Trim(path, "/"))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret %s not found", path)
	}

	val, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key %s not found in %s", key, path)
	}
	if s, ok := val.(string); ok {
		return s, nil
	}
	return fmt.Sprint(val), nil
}

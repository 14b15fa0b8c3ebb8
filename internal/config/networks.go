package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ivanoskov/balance_bot/internal/model"
	"gopkg.in/yaml.v3"
)

// NetworksFile - формат YAML-файла с описанием сетей
type NetworksFile struct {
	Networks []model.Network `yaml:"networks"`
}

// LoadNetworksFile читает описание сетей. Ожидается ровно две сети:
// первая - Ethereum, вторая - Base.
func LoadNetworksFile(path string) ([]model.Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read networks file: %w", err)
	}
	return ParseNetworks(raw)
}

func ParseNetworks(raw []byte) ([]model.Network, error) {
	var file NetworksFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse networks file: %w", err)
	}
	if len(file.Networks) != 2 {
		return nil, fmt.Errorf("networks file must define exactly 2 networks, got %d", len(file.Networks))
	}
	for i := range file.Networks {
		n := &file.Networks[i]
		n.Name = strings.TrimSpace(n.Name)
		n.Symbol = strings.TrimSpace(n.Symbol)
		if n.Name == "" {
			return nil, fmt.Errorf("network %d: name is required", i+1)
		}
		if n.Symbol == "" {
			return nil, fmt.Errorf("network %q: symbol is required", n.Name)
		}
		if len(n.Endpoints) == 0 {
			return nil, fmt.Errorf("network %q: at least one endpoint is required", n.Name)
		}
		if n.Decimals == 0 {
			n.Decimals = 18
		}
	}
	return file.Networks, nil
}

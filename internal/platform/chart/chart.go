// Package chart loads a chart of accounts from YAML and provisions it
// through the account service.
package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"gopkg.in/yaml.v3"
)

// AccountSpec is one account in the chart file. Parent refers to another
// account's code.
type AccountSpec struct {
	Code        string             `yaml:"code"`
	Name        string             `yaml:"name"`
	Type        domain.AccountType `yaml:"type"`
	Parent      string             `yaml:"parent,omitempty"`
	Description string             `yaml:"description,omitempty"`
}

// Chart is the parsed chart-of-accounts file.
type Chart struct {
	Accounts []AccountSpec `yaml:"accounts"`
}

// LoadFile reads and validates a chart file.
func LoadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart of accounts %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a chart. Unknown keys are rejected.
func Parse(r io.Reader) (*Chart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Chart
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decode chart of accounts: %v", apperrors.ErrValidation, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks codes are unique, types are known and every parent is
// declared before its children.
func (c *Chart) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("%w: chart of accounts is empty", apperrors.ErrValidation)
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, acc := range c.Accounts {
		if acc.Code == "" || acc.Name == "" {
			return fmt.Errorf("%w: account #%d needs a code and a name", apperrors.ErrValidation, i+1)
		}
		if !acc.Type.IsValid() {
			return fmt.Errorf("%w: account %s has unknown type %q", apperrors.ErrValidation, acc.Code, acc.Type)
		}
		if seen[acc.Code] {
			return fmt.Errorf("%w: account code %s declared twice", apperrors.ErrValidation, acc.Code)
		}
		if acc.Parent != "" && !seen[acc.Parent] {
			return fmt.Errorf("%w: parent %s of account %s must be declared first", apperrors.ErrValidation, acc.Parent, acc.Code)
		}
		seen[acc.Code] = true
	}
	return nil
}

// RequireCodes reports ErrMissingConfiguration for codes the chart does not declare.
func (c *Chart) RequireCodes(codes ...string) error {
	declared := make(map[string]bool, len(c.Accounts))
	for _, acc := range c.Accounts {
		declared[acc.Code] = true
	}
	for _, code := range codes {
		if !declared[code] {
			return fmt.Errorf("%w: posting account %s is not in the chart of accounts", apperrors.ErrMissingConfiguration, code)
		}
	}
	return nil
}

// AccountProvisioner is the part of the account service the seeder needs.
type AccountProvisioner interface {
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
}

// SeedResult counts what Seed did.
type SeedResult struct {
	Created  int
	Existing int
}

// Seed creates every account of the chart that does not exist yet. Existing
// accounts are left untouched, so seeding is idempotent.
func Seed(ctx context.Context, svc AccountProvisioner, c *Chart, userID string) (SeedResult, error) {
	var res SeedResult
	idsByCode := make(map[string]string, len(c.Accounts))

	for _, def := range c.Accounts {
		existing, err := svc.GetAccountByCode(ctx, def.Code)
		if err == nil {
			idsByCode[def.Code] = existing.AccountID
			res.Existing++
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return res, fmt.Errorf("look up account %s: %w", def.Code, err)
		}

		req := dto.CreateAccountRequest{
			Code:        def.Code,
			Name:        def.Name,
			AccountType: def.Type,
			Description: def.Description,
		}
		if def.Parent != "" {
			parentID := idsByCode[def.Parent]
			req.ParentAccountID = &parentID
		}

		created, err := svc.CreateAccount(ctx, req, userID)
		if err != nil {
			return res, fmt.Errorf("create account %s: %w", def.Code, err)
		}
		idsByCode[def.Code] = created.AccountID
		res.Created++
	}
	return res, nil
}

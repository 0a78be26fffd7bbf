package model

import (
	"fmt"
	"strings"
)

// Project is a funded initiative identified by its PV number.
type Project struct {
	PVNumber      string   `json:"pvNumber"`
	Name          string   `json:"name"`
	OracleAccount string   `json:"oracleAccount"`
	Budget        *float64 `json:"budget,omitempty"`
}

// HasBudget reports whether a budget ceiling is defined.
func (p Project) HasBudget() bool {
	return p.Budget != nil
}

// ProjectDraft holds project fields as entered, before validation.
type ProjectDraft struct {
	PVNumber      string
	Name          string
	OracleAccount string
	Budget        *float64
}

// DraftFromProject seeds a draft from an existing record, for editing.
func DraftFromProject(p Project) ProjectDraft {
	d := ProjectDraft{
		PVNumber:      p.PVNumber,
		Name:          p.Name,
		OracleAccount: p.OracleAccount,
	}
	if p.Budget != nil {
		b := *p.Budget
		d.Budget = &b
	}
	return d
}

// Build validates the draft and returns the committed Project.
func (d ProjectDraft) Build() (Project, error) {
	pv := strings.TrimSpace(d.PVNumber)
	name := strings.TrimSpace(d.Name)
	account := strings.TrimSpace(d.OracleAccount)

	switch {
	case pv == "":
		return Project{}, fmt.Errorf("%w: pv number", ErrRequiredField)
	case name == "":
		return Project{}, fmt.Errorf("%w: name", ErrRequiredField)
	case account == "":
		return Project{}, fmt.Errorf("%w: oracle account", ErrRequiredField)
	}

	p := Project{PVNumber: pv, Name: name, OracleAccount: account}
	if d.Budget != nil {
		if err := CheckAmount("budget", *d.Budget); err != nil {
			return Project{}, err
		}
		b := *d.Budget
		p.Budget = &b
	}
	return p, nil
}

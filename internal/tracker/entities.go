package tracker

import (
	"fmt"

	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/store"
)

// AddResource validates the draft and appends the resource. The id must not
// be in use.
func (t *Tracker) AddResource(d model.ResourceDraft) (model.Resource, error) {
	r, err := d.Build()
	if err != nil {
		return model.Resource{}, err
	}
	resources, err := t.Resources()
	if err != nil {
		return model.Resource{}, err
	}
	if indexResource(resources, r.ID) >= 0 {
		return model.Resource{}, fmt.Errorf("resource %q: %w", r.ID, ErrDuplicateKey)
	}

	if err := store.Save(t.store, store.KeyResources, append(resources, r)); err != nil {
		return model.Resource{}, err
	}
	t.log.Debug().Str("resource", r.ID).Msg("resource added")
	return r, nil
}

// UpdateResource replaces the resource with the given id by the draft's
// fields. The id itself cannot change.
func (t *Tracker) UpdateResource(id string, d model.ResourceDraft) (model.Resource, error) {
	resources, err := t.Resources()
	if err != nil {
		return model.Resource{}, err
	}
	i := indexResource(resources, id)
	if i < 0 {
		return model.Resource{}, fmt.Errorf("resource %q: %w", id, ErrNotFound)
	}

	d.ID = id
	r, err := d.Build()
	if err != nil {
		return model.Resource{}, err
	}
	resources[i] = r

	if err := store.Save(t.store, store.KeyResources, resources); err != nil {
		return model.Resource{}, err
	}
	t.log.Debug().Str("resource", id).Msg("resource updated")
	return r, nil
}

// DeleteResource removes the resource. Forecasts and actuals referencing it
// are kept and render as unknown.
func (t *Tracker) DeleteResource(id string) error {
	resources, err := t.Resources()
	if err != nil {
		return err
	}
	i := indexResource(resources, id)
	if i < 0 {
		return fmt.Errorf("resource %q: %w", id, ErrNotFound)
	}

	resources = append(resources[:i], resources[i+1:]...)
	if err := store.Save(t.store, store.KeyResources, resources); err != nil {
		return err
	}
	t.log.Debug().Str("resource", id).Msg("resource deleted")
	return nil
}

// AddProject validates the draft and appends the project. The PV number must
// not be in use.
func (t *Tracker) AddProject(d model.ProjectDraft) (model.Project, error) {
	p, err := d.Build()
	if err != nil {
		return model.Project{}, err
	}
	projects, err := t.Projects()
	if err != nil {
		return model.Project{}, err
	}
	if indexProject(projects, p.PVNumber) >= 0 {
		return model.Project{}, fmt.Errorf("project %q: %w", p.PVNumber, ErrDuplicateKey)
	}

	if err := store.Save(t.store, store.KeyProjects, append(projects, p)); err != nil {
		return model.Project{}, err
	}
	t.log.Debug().Str("project", p.PVNumber).Msg("project added")
	return p, nil
}

// UpdateProject replaces the project with the given PV number by the draft's
// fields. The PV number itself cannot change.
func (t *Tracker) UpdateProject(pv string, d model.ProjectDraft) (model.Project, error) {
	projects, err := t.Projects()
	if err != nil {
		return model.Project{}, err
	}
	i := indexProject(projects, pv)
	if i < 0 {
		return model.Project{}, fmt.Errorf("project %q: %w", pv, ErrNotFound)
	}

	d.PVNumber = pv
	p, err := d.Build()
	if err != nil {
		return model.Project{}, err
	}
	projects[i] = p

	if err := store.Save(t.store, store.KeyProjects, projects); err != nil {
		return model.Project{}, err
	}
	t.log.Debug().Str("project", pv).Msg("project updated")
	return p, nil
}

// DeleteProject removes the project. Forecasts and actuals referencing it are
// kept.
func (t *Tracker) DeleteProject(pv string) error {
	projects, err := t.Projects()
	if err != nil {
		return err
	}
	i := indexProject(projects, pv)
	if i < 0 {
		return fmt.Errorf("project %q: %w", pv, ErrNotFound)
	}

	projects = append(projects[:i], projects[i+1:]...)
	if err := store.Save(t.store, store.KeyProjects, projects); err != nil {
		return err
	}
	t.log.Debug().Str("project", pv).Msg("project deleted")
	return nil
}

func indexResource(resources []model.Resource, id string) int {
	for i, r := range resources {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func indexProject(projects []model.Project, pv string) int {
	for i, p := range projects {
		if p.PVNumber == pv {
			return i
		}
	}
	return -1
}

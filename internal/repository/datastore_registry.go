package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/datastore"
	"github.com/dcrew/floortrack/internal/domain"
)

const (
	employeeKind = "Employee"
	// datastore caps a single commit at 500 mutations
	datastoreBatch = 500
)

// employeeEntity is the datastore shape of an employee; the id lives in the key.
type employeeEntity struct {
	Name       string             `datastore:"Name"`
	Age        int                `datastore:"Age"`
	Department string             `datastore:"Department"`
	Working    bool               `datastore:"Working"`
	Attendance []attendanceEntity `datastore:"Attendance,noindex"`
}

type attendanceEntity struct {
	Date       string `datastore:"Date"`
	LoginTime  string `datastore:"LoginTime"`
	LogoutTime string `datastore:"LogoutTime"`
	CheckedOut bool   `datastore:"CheckedOut"`
}

// DatastoreRegistry keeps one Employee entity per worker.
type DatastoreRegistry struct {
	client *datastore.Client
}

// NewDatastoreRegistry wraps an existing datastore client.
func NewDatastoreRegistry(client *datastore.Client) *DatastoreRegistry {
	return &DatastoreRegistry{client: client}
}

func employeeKey(id int) *datastore.Key {
	return datastore.IDKey(employeeKind, int64(id), nil)
}

// Load reads every Employee entity, ordered by id.
func (r *DatastoreRegistry) Load(ctx context.Context) ([]domain.Employee, error) {
	if r == nil || r.client == nil {
		return nil, domain.WrapPersistence("load registry", fmt.Errorf("datastore client is nil"))
	}

	var entities []employeeEntity
	keys, err := r.client.GetAll(ctx, datastore.NewQuery(employeeKind), &entities)
	if err != nil {
		return nil, domain.WrapPersistence("load registry", err)
	}

	employees := make([]domain.Employee, len(entities))
	for i, ent := range entities {
		employees[i] = fromEntity(int(keys[i].ID), ent)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

// Save writes every employee and deletes entities no longer in the registry. Registries
// that fit one commit are written in a single transaction; larger ones in commit-sized batches.
func (r *DatastoreRegistry) Save(ctx context.Context, employees []domain.Employee) error {
	if r == nil || r.client == nil {
		return domain.WrapPersistence("save registry", fmt.Errorf("datastore client is nil"))
	}

	keys := make([]*datastore.Key, len(employees))
	entities := make([]employeeEntity, len(employees))
	keep := make(map[int64]bool, len(employees))
	for i, e := range employees {
		keys[i] = employeeKey(e.ID)
		entities[i] = toEntity(e)
		keep[int64(e.ID)] = true
	}

	existing, err := r.client.GetAll(ctx, datastore.NewQuery(employeeKind).KeysOnly(), nil)
	if err != nil {
		return domain.WrapPersistence("save registry", err)
	}
	var stale []*datastore.Key
	for _, k := range existing {
		if !keep[k.ID] {
			stale = append(stale, k)
		}
	}

	if len(keys)+len(stale) <= datastoreBatch {
		_, err := r.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
			if len(keys) > 0 {
				if _, err := tx.PutMulti(keys, entities); err != nil {
					return err
				}
			}
			if len(stale) > 0 {
				return tx.DeleteMulti(stale)
			}
			return nil
		})
		return domain.WrapPersistence("save registry", err)
	}

	for start := 0; start < len(keys); start += datastoreBatch {
		end := min(start+datastoreBatch, len(keys))
		if _, err := r.client.PutMulti(ctx, keys[start:end], entities[start:end]); err != nil {
			return domain.WrapPersistence("save registry", err)
		}
	}
	for start := 0; start < len(stale); start += datastoreBatch {
		end := min(start+datastoreBatch, len(stale))
		if err := r.client.DeleteMulti(ctx, stale[start:end]); err != nil {
			return domain.WrapPersistence("save registry", err)
		}
	}
	return nil
}

func toEntity(e domain.Employee) employeeEntity {
	ent := employeeEntity{
		Name:       e.Name,
		Age:        e.Age,
		Department: e.Department,
		Working:    e.Working,
		Attendance: make([]attendanceEntity, len(e.Attendance)),
	}
	for i, rec := range e.Attendance {
		a := attendanceEntity{Date: rec.Date, LoginTime: rec.LoginTime}
		if rec.LogoutTime != nil {
			a.LogoutTime = *rec.LogoutTime
			a.CheckedOut = true
		}
		ent.Attendance[i] = a
	}
	return ent
}

func fromEntity(id int, ent employeeEntity) domain.Employee {
	e := domain.Employee{
		ID:         id,
		Name:       ent.Name,
		Age:        ent.Age,
		Department: ent.Department,
		Working:    ent.Working,
	}
	for _, a := range ent.Attendance {
		rec := domain.AttendanceRecord{Date: a.Date, LoginTime: a.LoginTime}
		if a.CheckedOut {
			v := a.LogoutTime
			rec.LogoutTime = &v
		}
		e.Attendance = append(e.Attendance, rec)
	}
	return e
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/workhub/discussions-service/internal/models"
	"github.com/workhub/discussions-service/internal/storage"
)

// employeeDoc — read-only проекция справочника сотрудников.
// manager_id = uuid.Nil у сотрудников без руководителя.
type employeeDoc struct {
	ID        uuid.UUID `bson:"_id"`
	ManagerID uuid.UUID `bson:"manager_id,omitempty"`
	Username  string    `bson:"username"`
	IsAdmin   bool      `bson:"is_admin"`
	IsHR      bool      `bson:"is_hr"`
	IsActive  bool      `bson:"is_active"`
}

func (d employeeDoc) toModel() models.Employee {
	return models.Employee{
		ID:        d.ID,
		ManagerID: d.ManagerID,
		Username:  d.Username,
		IsAdmin:   d.IsAdmin,
		IsHR:      d.IsHR,
		IsActive:  d.IsActive,
	}
}

// EmployeeByID возвращает проекцию сотрудника.
func (s *Mongo) EmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	const op = "storage/mongo/EmployeeByID"

	var doc employeeDoc
	if err := s.employees.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := doc.toModel()

	return &result, nil
}

// IsManagerOf сообщает, является ли managerID непосредственным руководителем
// employeeID. Транзитивный подъём по цепочке не выполняется.
func (s *Mongo) IsManagerOf(ctx context.Context, managerID, employeeID uuid.UUID) (bool, error) {
	const op = "storage/mongo/IsManagerOf"

	if managerID == uuid.Nil || employeeID == uuid.Nil {
		return false, nil
	}

	n, err := s.employees.CountDocuments(ctx, bson.M{"_id": employeeID, "manager_id": managerID})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

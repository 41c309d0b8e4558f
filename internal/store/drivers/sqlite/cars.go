package sqlite

import (
	"context"
	"database/sql"

	"github.com/carnotes-app/carnotes/internal/domain"
)

type carsRepo struct {
	q queryer
}

func (r *carsRepo) CreateCar(ctx context.Context, c domain.Car) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cars (id, user_id, brand, model, fuel, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Brand, c.Model, c.Fuel, c.CreatedAt,
	)
	return err
}

func (r *carsRepo) GetCar(ctx context.Context, userID, carID string) (domain.Car, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, brand, model, fuel, created_at
		FROM cars WHERE user_id = ? AND id = ?`, userID, carID)

	var c domain.Car
	if err := row.Scan(&c.ID, &c.UserID, &c.Brand, &c.Model, &c.Fuel, &c.CreatedAt); err != nil {
		return domain.Car{}, mapNotFound(err)
	}
	return c, nil
}

func (r *carsRepo) ListCarsByUser(ctx context.Context, userID string) ([]domain.Car, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, brand, model, fuel, created_at
		FROM cars WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

func (r *carsRepo) ListAllCars(ctx context.Context) ([]domain.Car, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, brand, model, fuel, created_at
		FROM cars
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

func (r *carsRepo) UpdateCar(ctx context.Context, c domain.Car) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE cars SET brand = ?, model = ?, fuel = ?
		WHERE id = ? AND user_id = ?`,
		c.Brand, c.Model, c.Fuel, c.ID, c.UserID,
	)
	if err != nil {
		return err
	}
	return mapNoRows(res)
}

func (r *carsRepo) DeleteCar(ctx context.Context, userID, carID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM cars WHERE id = ? AND user_id = ?`, carID, userID)
	return err
}

func (r *carsRepo) DeleteCarAnyOwner(ctx context.Context, carID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, carID)
	return err
}

func collectCars(rows *sql.Rows) ([]domain.Car, error) {
	defer rows.Close()

	cars := []domain.Car{}
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(&c.ID, &c.UserID, &c.Brand, &c.Model, &c.Fuel, &c.CreatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

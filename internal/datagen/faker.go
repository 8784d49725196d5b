//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates realistic sample transaction files for
// demos and tests.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Name generates a random full name.
func (f *Faker) Name() string {
	return f.faker.Name()
}

// Street generates a random street name.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// Int generates a random integer in [min, max].
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Date generates a random date between start and end.
func (f *Faker) Date(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// Choose picks a random element from items.
func Choose[T any](f *Faker, items []T) T {
	return items[f.Int(0, len(items)-1)]
}

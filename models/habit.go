package models

import (
	"fmt"
	"sort"
)

// PointsPerHabit is the fixed value of every completed commandment.
const PointsPerHabit = 10

// Habit is one of the ten fixed health commandments.
type Habit struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ShortTitle  string `json:"short_title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

var habits = []Habit{
	{ID: 1, Title: "The Tape Measure Truth", ShortTitle: "Waist Circumference", Description: "Asian Men: < 90 cm | Asian Women: < 80 cm"},
	{ID: 2, Title: "You Can't Outrun a Bad Diet", ShortTitle: "Diet (80%) > Exercise (20%)", Description: "Nutritional quality and portion control are king."},
	{ID: 3, Title: "The Kitchen is CLOSED", ShortTitle: "Time-Restricted Eating", Description: "Eat between 7 AM - 7 PM."},
	{ID: 4, Title: "Catch Those Zzz's", ShortTitle: "Sleep Hygiene", Description: "Men: >= 7 hours | Women: >= 8 hours"},
	{ID: 5, Title: "Chill Pill (Meditation)", ShortTitle: "Stress Management", Description: "Minimum 7 Minutes Daily Meditation"},
	{ID: 6, Title: "Water You Doing?", ShortTitle: "Hydration", Description: "Minimum 2 liters of water daily"},
	{ID: 7, Title: "Rice Rice Baby (But Less)", ShortTitle: "Portion Control", Description: "Limit cooked red rice to ~150g per meal."},
	{ID: 8, Title: "Move It or Lose It", ShortTitle: "Daily Physical Activity", Description: "Minimum 20 Minutes (60-70% Max Heart Rate)"},
	{ID: 9, Title: "The 90-Day Reality Check", ShortTitle: "Accountability", Description: "Reassess weight, waist, BP, and glucose every 90 days."},
	{ID: 10, Title: "The Ultimate Guilt Trip", ShortTitle: "Responsibility", Description: "If you have dependents, it's your duty to stay healthy."},
}

func init() {
	for i := range habits {
		habits[i].Points = PointsPerHabit
	}
}

// Habits returns a copy of the habit catalog ordered by id.
func Habits() []Habit {
	out := make([]Habit, len(habits))
	copy(out, habits)
	return out
}

// IsHabitID reports whether id names a catalog entry.
func IsHabitID(id int) bool {
	return id >= 1 && id <= len(habits)
}

// NormalizeHabitIDs de-duplicates and sorts ids, rejecting any id outside the catalog.
func NormalizeHabitIDs(ids []int) ([]int, error) {
	out := UniqueInts(ids)
	for _, id := range out {
		if !IsHabitID(id) {
			return nil, fmt.Errorf("unknown habit id %d", id)
		}
	}
	sort.Ints(out)
	return out, nil
}

// ScoreFor returns the points earned for a normalised set of completed habits.
func ScoreFor(ids []int) int {
	return PointsPerHabit * len(ids)
}

// UniqueInts removes duplicate values from a slice of ints, keeping first occurrences.
func UniqueInts(slice []int) []int {
	keys := make(map[int]bool)
	list := []int{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

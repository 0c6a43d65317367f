package domain

// Difficulty represents the intensity tier of a workout plan.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
	DifficultyElite        Difficulty = "ELITE"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyElite:
		return true
	}
	return false
}

// WorkoutCategory represents the training focus of a workout plan.
type WorkoutCategory string

const (
	CategoryFullBody    WorkoutCategory = "FULL_BODY"
	CategoryUpperBody   WorkoutCategory = "UPPER_BODY"
	CategoryLowerBody   WorkoutCategory = "LOWER_BODY"
	CategoryCore        WorkoutCategory = "CORE"
	CategoryStrength    WorkoutCategory = "STRENGTH"
	CategoryCardio      WorkoutCategory = "CARDIO"
	CategoryHIIT        WorkoutCategory = "HIIT"
	CategoryFlexibility WorkoutCategory = "FLEXIBILITY"
	CategoryEndurance   WorkoutCategory = "ENDURANCE"
)

func (c WorkoutCategory) String() string { return string(c) }

func (c WorkoutCategory) IsValid() bool {
	switch c {
	case CategoryFullBody, CategoryUpperBody, CategoryLowerBody, CategoryCore,
		CategoryStrength, CategoryCardio, CategoryHIIT, CategoryFlexibility,
		CategoryEndurance:
		return true
	}
	return false
}

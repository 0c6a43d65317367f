package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}

	if c.Cache.EntityTTL <= 0 {
		return fmt.Errorf("cache.entity_ttl must be > 0 (got %v)", c.Cache.EntityTTL)
	}
	if c.Cache.ListTTL <= 0 {
		return fmt.Errorf("cache.list_ttl must be > 0 (got %v)", c.Cache.ListTTL)
	}

	if c.Plans.DefaultPageSize <= 0 {
		return fmt.Errorf("plans.default_page_size must be > 0 (got %d)", c.Plans.DefaultPageSize)
	}
	if c.Plans.MaxPageSize < c.Plans.DefaultPageSize {
		return fmt.Errorf("plans.max_page_size (%d) must be >= default_page_size (%d)",
			c.Plans.MaxPageSize, c.Plans.DefaultPageSize)
	}
	if c.Plans.DefaultEstimatedDuration < 0 {
		return fmt.Errorf("plans.default_estimated_duration must be >= 0 (got %d)", c.Plans.DefaultEstimatedDuration)
	}
	if c.Plans.MaxExercisesPerPlan <= 0 {
		return fmt.Errorf("plans.max_exercises_per_plan must be > 0 (got %d)", c.Plans.MaxExercisesPerPlan)
	}

	return nil
}

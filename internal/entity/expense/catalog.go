package expense

import "math"

const shareTolerance = 1e-9

// Catalog is the configured set of users, categories and split methods.
// It is loaded once and only read afterwards.
type Catalog struct {
	Users        []User        `yaml:"users"`
	Categories   []Category    `yaml:"categories"`
	SplitMethods []SplitMethod `yaml:"split-types"`
}

func (c *Catalog) UserLabels() []string {
	res := make([]string, 0, len(c.Users))
	for _, u := range c.Users {
		res = append(res, u.DisplayName())
	}
	return res
}

func (c *Catalog) CategoryLabels() []string {
	res := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		res = append(res, cat.DisplayName())
	}
	return res
}

func (c *Catalog) SplitMethodNames() []string {
	res := make([]string, 0, len(c.SplitMethods))
	for _, s := range c.SplitMethods {
		res = append(res, s.Name)
	}
	return res
}

func (c *Catalog) UserByLabel(label string) (User, bool) {
	for _, u := range c.Users {
		if u.DisplayName() == label {
			return u, true
		}
	}
	return User{}, false
}

func (c *Catalog) UserByName(name string) (User, bool) {
	for _, u := range c.Users {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}

func (c *Catalog) UserByID(id string) (User, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (c *Catalog) CategoryByLabel(label string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.DisplayName() == label {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalog) CategoryByName(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalog) SplitMethodByName(name string) (SplitMethod, bool) {
	for _, s := range c.SplitMethods {
		if s.Name == name {
			return s, true
		}
	}
	return SplitMethod{}, false
}

// UnbalancedSplitMethods lists split methods whose shares do not add up to 100.
// Such methods are still usable.
func (c *Catalog) UnbalancedSplitMethods() []string {
	var res []string
	for _, s := range c.SplitMethods {
		sum := 0.0
		for _, pct := range s.Split {
			sum += pct
		}
		if math.Abs(sum-100) > shareTolerance {
			res = append(res, s.Name)
		}
	}
	return res
}

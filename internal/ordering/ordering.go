// Package ordering holds the named sort policies used when listing students
// and courses.
package ordering

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/noah-isme/ccrm-api/internal/models"
)

// Comparator orders two values: negative when a sorts first, zero when equal.
type Comparator[T any] func(a, b T) int

// StudentsByGPA sorts higher GPA first.
func StudentsByGPA(a, b *models.Student) int {
	return cmp.Compare(b.GPA(), a.GPA())
}

// StudentsByName sorts by full name, lexicographically.
func StudentsByName(a, b *models.Student) int {
	return strings.Compare(a.FullName().Full(), b.FullName().Full())
}

// StudentsByRegistration sorts by creation time, oldest first.
func StudentsByRegistration(a, b *models.Student) int {
	return a.CreatedAt().Compare(b.CreatedAt())
}

// CoursesByCredits sorts heavier courses first.
func CoursesByCredits(a, b *models.Course) int {
	return cmp.Compare(b.Credits(), a.Credits())
}

// CoursesByCode sorts by course code.
func CoursesByCode(a, b *models.Course) int {
	return strings.Compare(a.Code(), b.Code())
}

// Reverse inverts c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// Then falls back to next when c reports equality.
func Then[T any](c, next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// Sort returns a sorted copy of items. Equal elements keep their input order.
func Sort[T any](items []T, c Comparator[T]) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, c)
	return out
}

var (
	studentPolicies = map[string]Comparator[*models.Student]{
		"gpa":          StudentsByGPA,
		"name":         StudentsByName,
		"registration": StudentsByRegistration,
	}
	coursePolicies = map[string]Comparator[*models.Course]{
		"credits": CoursesByCredits,
		"code":    CoursesByCode,
	}
)

// StudentPolicy resolves a policy name such as "gpa" or "-name". A leading
// "-" reverses the policy. An empty name returns nil.
func StudentPolicy(name string) (Comparator[*models.Student], error) {
	return lookup(studentPolicies, name)
}

// CoursePolicy resolves a course policy name, see StudentPolicy.
func CoursePolicy(name string) (Comparator[*models.Course], error) {
	return lookup(coursePolicies, name)
}

// StudentPolicyNames lists the accepted student policy names.
func StudentPolicyNames() []string { return names(studentPolicies) }

// CoursePolicyNames lists the accepted course policy names.
func CoursePolicyNames() []string { return names(coursePolicies) }

func lookup[T any](policies map[string]Comparator[T], name string) (Comparator[T], error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	reverse := strings.HasPrefix(name, "-")
	c, ok := policies[strings.TrimPrefix(name, "-")]
	if !ok {
		return nil, fmt.Errorf("unknown sort %q, expected one of %s", name, strings.Join(names(policies), ", "))
	}
	if reverse {
		return Reverse(c), nil
	}
	return c, nil
}

func names[T any](policies map[string]Comparator[T]) []string {
	out := make([]string, 0, len(policies))
	for name := range policies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

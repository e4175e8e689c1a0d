package browser

import "strings"

// ElementPresent holds once the selector matches an element on the page.
func ElementPresent(selector string) Condition {
	return func(d Driver) (bool, error) {
		return d.Has(selector)
	}
}

// DocumentComplete holds once document.readyState reaches "complete".
func DocumentComplete() Condition {
	return func(d Driver) (bool, error) {
		state, err := d.Eval(`document.readyState`)
		if err != nil {
			return false, err
		}
		s, ok := state.(string)
		return ok && s == "complete", nil
	}
}

// URLContains holds once the current (possibly redirected) URL contains fragment.
func URLContains(fragment string) Condition {
	return func(d Driver) (bool, error) {
		current, err := d.CurrentURL()
		if err != nil {
			return false, err
		}
		return strings.Contains(current, fragment), nil
	}
}

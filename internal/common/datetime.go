package common

import "time"

const DateFormatYYYYMMDD = "2006-01-02"

// Now is the default running date of worker jobs.
var Now = func() time.Time {
	return time.Now().UTC()
}

func ParseStringToDatetime(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, ErrInvalidFormatDate
	}
	return t, nil
}

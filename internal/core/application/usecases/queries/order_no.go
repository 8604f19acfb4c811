package queries

import (
	"strings"

	"logistics/internal/pkg/errs"
)

func parseOrderNo(orderNo string) (string, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return "", errs.NewValueIsRequiredError("orderNo")
	}
	return orderNo, nil
}

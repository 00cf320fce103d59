package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"machine-bootstrap/internal/model"
)

// categoryList is a comma separated --category flag.
type categoryList []model.Category

var _ pflag.Value = (*categoryList)(nil)

func (c *categoryList) String() string {
	names := make([]string, len(*c))
	for i, cat := range *c {
		names[i] = cat.CLIName()
	}
	return strings.Join(names, ",")
}

func (c *categoryList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		cat, ok := model.ParseCategory(part)
		if !ok {
			return fmt.Errorf("unknown category %q (see `list categories`)", part)
		}
		*c = append(*c, cat)
	}
	return nil
}

func (c *categoryList) Type() string {
	return "categories"
}

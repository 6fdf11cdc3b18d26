package chi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
)

const filterPrefix = "filter."

// bindQuery binds one optional form-style query parameter into dest.
// explode=false accepts comma separated lists.
func bindQuery(q url.Values, name string, explode bool, dest any) error {
	if err := runtime.BindQueryParameter("form", explode, false, name, q, dest); err != nil {
		return domain.NewFieldError(name, "invalid value")
	}
	return nil
}

// bindPath binds a required simple-style path parameter into dest.
func bindPath(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, gochi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return domain.NewFieldError(name, "invalid value")
	}
	return nil
}

// parseViewQuery reads the table view state:
//
//	page, page_size, sort=field:dir,field:dir, filter.<field>=v1,v2, from, to
//
// from and to are inclusive calendar dates (YYYY-MM-DD).
func parseViewQuery(r *http.Request) (view.Query, error) {
	q := r.URL.Query()
	var out view.Query

	if err := bindQuery(q, "page", true, &out.Page); err != nil {
		return view.Query{}, err
	}
	if err := bindQuery(q, "page_size", true, &out.PageSize); err != nil {
		return view.Query{}, err
	}

	var sortItems []string
	if err := bindQuery(q, "sort", false, &sortItems); err != nil {
		return view.Query{}, err
	}
	sc, err := view.ParseSortList(sortItems)
	if err != nil {
		return view.Query{}, domain.NewFieldError("sort", err.Error())
	}
	out.Sort = sc

	dr, err := parseDateRange(q)
	if err != nil {
		return view.Query{}, err
	}

	values := make(map[string][]string)
	for key, raw := range q {
		field, ok := strings.CutPrefix(key, filterPrefix)
		if !ok || field == "" {
			continue
		}
		for _, v := range raw {
			for _, item := range strings.Split(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					values[field] = append(values[field], item)
				}
			}
		}
	}
	fs, err := view.NewFilterSet(values, dr)
	if err != nil {
		return view.Query{}, domain.NewFieldError("filter", err.Error())
	}
	out.Filters = fs
	return out, nil
}

func parseDateRange(q url.Values) (view.DateRange, error) {
	var from, to *types.Date
	if err := bindQuery(q, "from", true, &from); err != nil {
		return view.DateRange{}, err
	}
	if err := bindQuery(q, "to", true, &to); err != nil {
		return view.DateRange{}, err
	}
	var dr view.DateRange
	if from != nil {
		dr.Start = from.Time
	}
	if to != nil {
		// inclusive: the whole last day
		dr.End = to.Time.Add(24*time.Hour - time.Nanosecond)
	}
	return dr, nil
}

package store

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cppla/blogapi/utils"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// criterionRe splits "key<op>value"; longer operators come first in the alternation.
var criterionRe = regexp.MustCompile(`^([^<>=!]+)(>=|<=|!=|=|>|<)(.*)$`)

// Query is a listing request translated from a URL query string.
type Query struct {
	Criteria   bson.M
	Limit      int64
	Skip       int64
	Sort       bson.D
	Projection bson.M

	// rest keeps the non-paging parts of the raw query for link building
	rest []string
}

// Links are the navigation urls of a paged listing.
type Links struct {
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// ParseQuery translates a raw query string. Reserved keys are limit, skip (or offset),
// sort, fields and omit; every other key becomes a criterion:
//
//	k=v      equality, numbers and booleans coerced
//	k=a,b    $in
//	k=!v     $ne (k=!a,b is $nin)
//	k!=v     $ne
//	k>v k>=v k<v k<=v
func ParseQuery(raw string) (Query, error) {
	q := Query{Criteria: bson.M{}, Limit: DefaultPageLimit}

	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		decoded, err := url.QueryUnescape(part)
		if err != nil {
			return q, utils.NewBadRequestError("Malformed query %q", part)
		}
		m := criterionRe.FindStringSubmatch(decoded)
		if m == nil {
			if err := checkField(decoded); err != nil {
				return q, err
			}
			// bare key: existence check
			q.Criteria[decoded] = bson.M{"$exists": true}
			q.rest = append(q.rest, part)
			continue
		}
		key, op, val := strings.TrimSpace(m[1]), m[2], m[3]

		switch key {
		case "limit":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil || n <= 0 {
				return q, utils.NewBadRequestError("limit must be a positive integer")
			}
			q.Limit = min(n, MaxPageLimit)
		case "skip", "offset":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil || n < 0 {
				return q, utils.NewBadRequestError("%s must be a non-negative integer", key)
			}
			q.Skip = n
		case "sort":
			q.rest = append(q.rest, part)
			for _, f := range splitList(val) {
				dir := 1
				switch f[0] {
				case '-':
					dir, f = -1, f[1:]
				case '+':
					f = f[1:]
				}
				if err := checkField(f); err != nil {
					return q, err
				}
				q.Sort = append(q.Sort, bson.E{Key: f, Value: dir})
			}
		case "fields", "omit":
			q.rest = append(q.rest, part)
			flag := 1
			if key == "omit" {
				flag = 0
			}
			for _, f := range splitList(val) {
				if err := checkField(f); err != nil {
					return q, err
				}
				if q.Projection == nil {
					q.Projection = bson.M{}
				}
				q.Projection[f] = flag
			}
		default:
			if err := checkField(key); err != nil {
				return q, err
			}
			q.rest = append(q.rest, part)
			mergeCriterion(q.Criteria, key, criterion(op, val))
		}
	}
	if err := checkProjection(q.Projection); err != nil {
		return q, err
	}
	return q, nil
}

// checkField refuses names that would reach the server as query operators,
// such as $where or $expr.
func checkField(name string) error {
	if name == "" || strings.HasPrefix(name, "$") || strings.Contains(name, ".$") {
		return utils.NewBadRequestError("Invalid field name %q", name)
	}
	return nil
}

// checkProjection refuses fields mixed with omit; only _id may be excluded
// from an inclusion projection.
func checkProjection(p bson.M) error {
	var include, exclude bool
	for f, v := range p {
		switch {
		case v == 1:
			include = true
		case f != "_id":
			exclude = true
		}
	}
	if include && exclude {
		return utils.NewBadRequestError("fields and omit cannot be combined")
	}
	return nil
}

func criterion(op, val string) interface{} {
	switch op {
	case ">":
		return bson.M{"$gt": coerce(val)}
	case ">=":
		return bson.M{"$gte": coerce(val)}
	case "<":
		return bson.M{"$lt": coerce(val)}
	case "<=":
		return bson.M{"$lte": coerce(val)}
	case "!=":
		return bson.M{"$ne": coerce(val)}
	}

	negate := strings.HasPrefix(val, "!")
	if negate {
		val = val[1:]
	}
	if strings.Contains(val, ",") {
		list := bson.A{}
		for _, v := range splitList(val) {
			list = append(list, coerce(v))
		}
		if negate {
			return bson.M{"$nin": list}
		}
		return bson.M{"$in": list}
	}
	if negate {
		return bson.M{"$ne": coerce(val)}
	}
	return coerce(val)
}

// mergeCriterion lets price>1&price<5 combine into one range.
func mergeCriterion(criteria bson.M, key string, c interface{}) {
	prev, ok := criteria[key].(bson.M)
	next, isOp := c.(bson.M)
	if ok && isOp {
		for k, v := range next {
			prev[k] = v
		}
		return
	}
	criteria[key] = c
}

func coerce(v string) interface{} {
	switch v {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return v
}

func splitList(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TotalPages is ceil(total/limit).
func (q Query) TotalPages(total int64) int64 {
	if q.Limit <= 0 {
		return 0
	}
	return (total + q.Limit - 1) / q.Limit
}

// Links builds first/prev/next/last urls under base for a listing of total documents.
func (q Query) Links(base string, total int64) Links {
	at := func(offset int64) string {
		parts := append([]string{}, q.rest...)
		parts = append(parts,
			"limit="+strconv.FormatInt(q.Limit, 10),
			"offset="+strconv.FormatInt(offset, 10))
		return base + "?" + strings.Join(parts, "&")
	}

	links := Links{First: at(0)}
	if q.Skip > 0 {
		links.Prev = at(max(q.Skip-q.Limit, 0))
	}
	if q.Skip+q.Limit < total {
		links.Next = at(q.Skip + q.Limit)
		links.Last = at((q.TotalPages(total) - 1) * q.Limit)
	}
	return links
}

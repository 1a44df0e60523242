package service

// Page sizes and ranking caps.
const (
	QuestionsPerPage = 10
	AnswersPerPage   = 5

	NewLimit         = 10
	HotLimit         = 30
	BestLimit        = 30
	PopularTagsLimit = 10
	BestMembersLimit = 5
)

// Paginate returns the slice of ids for page along with the clamped page
// number and the last page. Pages are 1-based; out-of-range requests are
// clamped and an empty list still has one page.
func Paginate(ids []uint, page, perPage int) ([]uint, int, int) {
	last := (len(ids) + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end], page, last
}

// pageOf returns the 1-based page holding id, or 1 if id is absent.
func pageOf(ids []uint, id uint, perPage int) int {
	for i, v := range ids {
		if v == id {
			return i/perPage + 1
		}
	}
	return 1
}

package promotion

import "sort"

// totalQuantity sums the unit count across all line items.
func totalQuantity(items []LineItem) int {
	var total int
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// unitPrices flattens the cart into one price entry per physical unit: a
// line with quantity 3 contributes its unit price three times.
func unitPrices(items []LineItem) []int64 {
	prices := make([]int64, 0, totalQuantity(items))
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			prices = append(prices, item.UnitPrice)
		}
	}
	return prices
}

func sortPricesAscending(prices []int64) {
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
}

func sortPricesDescending(prices []int64) {
	sort.Slice(prices, func(i, j int) bool { return prices[i] > prices[j] })
}

// sumLowest sums the first n entries of an ascending-sorted price list.
func sumLowest(sortedAscending []int64, n int) int64 {
	if n > len(sortedAscending) {
		n = len(sortedAscending)
	}
	var total int64
	for _, price := range sortedAscending[:n] {
		total += price
	}
	return total
}

// secondOfPairTotal pairs consecutive entries of a descending-sorted price
// list and sums the second entry of each complete pair. A trailing unpaired
// entry contributes nothing.
func secondOfPairTotal(sortedDescending []int64) int64 {
	var total int64
	for i := 1; i < len(sortedDescending); i += 2 {
		total += sortedDescending[i]
	}
	return total
}

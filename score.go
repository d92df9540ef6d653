package main

// QualityLevel is the blueprint id times its geode count.
func QualityLevel(r Result) int {
	return r.BlueprintID * r.Geodes
}

// TotalQuality sums the quality levels of results.
func TotalQuality(results []Result) int {
	total := 0
	for _, r := range results {
		total += QualityLevel(r)
	}
	return total
}

// GeodeProduct multiplies the geode counts of results. An empty slice gives 1.
func GeodeProduct(results []Result) int {
	product := 1
	for _, r := range results {
		product *= r.Geodes
	}
	return product
}

package paytable

// builtins returns fresh copies of the tables every registry starts with.
func builtins() []*Paytable {
	return []*Paytable{
		{
			// BARGE 2025 unified poker payouts. Fewer than five
			// entrants is winner take all.
			Name:      "barge",
			Increment: 5,
			Rows: []Row{
				{MinPlayers: 1, MaxPlayers: 4, Percentages: []int{10000}},
				{MinPlayers: 5, MaxPlayers: 8, Percentages: []int{6500, 3500}},
				{MinPlayers: 9, MaxPlayers: 15, Percentages: []int{5000, 3000, 2000}},
				{MinPlayers: 16, MaxPlayers: 24, Percentages: []int{4200, 2600, 1800, 1400}},
				{MinPlayers: 25, MaxPlayers: 35, Percentages: []int{3600, 2400, 1700, 1300, 1000}},
				{MinPlayers: 36, MaxPlayers: 47, Percentages: []int{3100, 2200, 1700, 1300, 1000, 700}},
				{MinPlayers: 48, MaxPlayers: 55, Percentages: []int{2800, 2100, 1600, 1300, 1000, 700, 500}},
				{MinPlayers: 56, MaxPlayers: 64, Percentages: []int{2700, 2000, 1600, 1200, 900, 700, 500, 400}},
				{MinPlayers: 65, MaxPlayers: 72, Percentages: []int{2600, 1900, 1500, 1200, 900, 700, 500, 400, 300}},
			},
		},
		{
			Name:      "sng",
			Increment: 1,
			Rows: []Row{
				{MinPlayers: 2, MaxPlayers: 5, Percentages: []int{10000}},
				{MinPlayers: 6, MaxPlayers: 6, Percentages: []int{6500, 3500}},
				{MinPlayers: 7, MaxPlayers: 10, Percentages: []int{5000, 3000, 2000}},
			},
		},
		{
			Name:      "wta",
			Increment: 1,
			Rows: []Row{
				{MinPlayers: 1, MaxPlayers: 1 << 20, Percentages: []int{10000}},
			},
		},
	}
}

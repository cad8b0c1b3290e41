package chain

const registryABI = `[
	{"type":"function","name":"getVideosLength","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getVideos","stateMutability":"view","inputs":[{"name":"_index","type":"uint256"}],"outputs":[
		{"name":"","type":"address"},
		{"name":"","type":"string"},
		{"name":"","type":"string"},
		{"name":"","type":"string"},
		{"name":"","type":"uint256"},
		{"name":"","type":"uint256"},
		{"name":"","type":"bool"},
		{"name":"","type":"uint256"}
	]},
	{"type":"function","name":"getContractOwner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"addVideo","stateMutability":"nonpayable","inputs":[
		{"name":"_videoLink","type":"string"},
		{"name":"_title","type":"string"},
		{"name":"_description","type":"string"}
	],"outputs":[]},
	{"type":"function","name":"likeVideo","stateMutability":"nonpayable","inputs":[{"name":"_index","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"dislikeVideo","stateMutability":"nonpayable","inputs":[{"name":"_index","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"verifyVideo","stateMutability":"nonpayable","inputs":[{"name":"_index","type":"uint256"}],"outputs":[]}
]`

// ERC-20 subset used by the client.
const tokenABI = `[
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
		{"name":"spender","type":"address"},
		{"name":"amount","type":"uint256"}
	],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

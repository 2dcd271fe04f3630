package evm

// tokenABI is the ERC-721 enumerable subset read from the collection.
const tokenABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]}
]`

// mapperABI covers the subname mapper functions and custom errors used here.
const mapperABI = `[
  {"type":"function","name":"claimSubname","stateMutability":"nonpayable",
   "inputs":[{"name":"label","type":"string"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"migrateLegacySubname","stateMutability":"nonpayable",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"releaseLegacySubname","stateMutability":"nonpayable",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"relinquishSubname","stateMutability":"nonpayable",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"ensNameOf","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"ensNodeOf","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"isLegacyNode","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"rootNode","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"rootLabel","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"name","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"error","name":"AlreadyClaimed","inputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"error","name":"InvalidLabel","inputs":[]},
  {"type":"error","name":"InvalidLegacyAddress","inputs":[]},
  {"type":"error","name":"NotAuthorised","inputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"error","name":"NotTokenOwner","inputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"error","name":"PreexistingENSRecord","inputs":[{"name":"node","type":"bytes32"}]},
  {"type":"error","name":"UnregisteredNode","inputs":[{"name":"node","type":"bytes32"}]},
  {"type":"error","name":"OwnableUnauthorizedAccount","inputs":[{"name":"account","type":"address"}]},
  {"type":"error","name":"ReentrancyGuardReentrantCall","inputs":[]}
]`

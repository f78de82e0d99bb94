package cpswap

import (
	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

// ProgramID is the liquidity pool program address.
var ProgramID = solana.MustPublicKeyFromBase58("HEnMwtqH2T6bVHGwTkbbj2WBKJs6G4TztVSeUC9w1Tb1")

// DerivePoolAuthority returns the program address that owns the vaults and
// the share mint of the tokenAMint/tokenBMint pair.
func DerivePoolAuthority(tokenAMint, tokenBMint, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(shared.PoolSeed),
		tokenAMint.Bytes(),
		tokenBMint.Bytes(),
	}, programID)
}

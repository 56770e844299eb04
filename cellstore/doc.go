/*
Package cellstore contains a toolkit for building compact "write-once,
read-only" stores of grid cell fragments, keyed by the linear cell index.

# Data Structure Documentation

# Store

A store contains a series of data blocks followed by an index and
a store footer.

	Store layout:
	+---------+---------+---------+-------------+--------------+
	| block 1 |   ...   | block n | block index | store footer |
	+---------+---------+---------+-------------+--------------+

	Block index:
	+---------------------------+-------------------+---------------------------------+-------------------------+--------+
	| last key block 1 (varint) | offset 1 (varint) | last key block 2 (varint,delta) | offset 2 (varint,delta) |   ...  |
	+---------------------------+-------------------+---------------------------------+-------------------------+--------+

	Store footer:
	+------------------------+------------------+
	| index offset (8 bytes) |  magic (8 bytes) |
	+------------------------+------------------+

# Block

A block comprises of a series of sections, followed by a section
index and a single-byte compression type indicator.

	Block layout:
	+-----------+---------+-----------+---------------+---------------------------+
	| section 1 |   ...   | section n | section index | compression type (1-byte) |
	+-----------+---------+-----------+---------------+---------------------------+

	Section index:
	+----------------------------+-------+----------------------------+-------------------------------+
	| section offset 1 (4 bytes) |  ...  | section offset n (4 bytes) |  number of sections (4 bytes) |
	+----------------------------+-------+----------------------------+-------------------------------+

# Section

A section is a series of key-value pairs (= entries) where the key of the first
entry is stored in full while the keys of all subsequent entries are delta
encoded.

	+----------------+----------------------+------------------+----------------------+----------------------+------------------+-------+
	| key 1 (varint) | value len 1 (varint) | value 1 (varlen) | key 2 (varint,delta) | value len 2 (varint) | value 2 (varlen) |  ...  |
	+----------------+----------------------+------------------+----------------------+----------------------+------------------+-------+
*/
package cellstore
